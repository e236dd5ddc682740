package models

// Topic is one daily practice scenario
type Topic struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// DefaultTopics is the fixed set a daily topic is drawn from.
var DefaultTopics = []Topic{
	{
		ID:          1,
		Title:       "Shopping for Clothes",
		Description: "Practice vocabulary and phrases used when shopping for clothes, asking about sizes, colors, and prices.",
	},
	{
		ID:          2,
		Title:       "Ordering Food at a Restaurant",
		Description: "Learn how to order food, make special requests, and ask about menu items.",
	},
	{
		ID:          3,
		Title:       "Asking for Directions",
		Description: "Practice asking for and giving directions to various places in a city.",
	},
	{
		ID:          4,
		Title:       "Making Small Talk",
		Description: "Learn common phrases and questions for casual conversations with new acquaintances.",
	},
	{
		ID:          5,
		Title:       "Job Interview",
		Description: "Practice answering common job interview questions and discussing your qualifications.",
	},
}
