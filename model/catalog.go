package model

import "fmt"

type CuisineID string

type DessertID string

const (
	CuisineItalian  CuisineID = "italian"
	CuisineChinese  CuisineID = "chinese"
	CuisineIndian   CuisineID = "indian"
	CuisineMexican  CuisineID = "mexican"
	CuisineThai     CuisineID = "thai"
	CuisineJapanese CuisineID = "japanese"

	DessertCake     DessertID = "cake"
	DessertIceCream DessertID = "icecream"
	DessertPastries DessertID = "pastries"
	DessertCookies  DessertID = "cookies"
)

// Option is one tile of a food grid.
type Option struct {
	ID    string
	Name  string
	Image string
}

var Cuisines = []Option{
	{ID: string(CuisineItalian), Name: "Italian", Image: "https://images.unsplash.com/photo-1498579150354-977475b7ea0b?auto=format&fit=crop&q=80&w=500"},
	{ID: string(CuisineChinese), Name: "Chinese", Image: "https://images.unsplash.com/photo-1585032226651-759b368d7246?auto=format&fit=crop&q=80&w=500"},
	{ID: string(CuisineIndian), Name: "Indian", Image: "https://images.unsplash.com/photo-1585937421612-70a008356fbe?auto=format&fit=crop&q=80&w=500"},
	{ID: string(CuisineMexican), Name: "Mexican", Image: "https://images.unsplash.com/photo-1599974579688-8dbdd335c77f?auto=format&fit=crop&q=80&w=500"},
	{ID: string(CuisineThai), Name: "Thai", Image: "https://images.unsplash.com/photo-1559314809-0d155014e29e?auto=format&fit=crop&q=80&w=500"},
	{ID: string(CuisineJapanese), Name: "Japanese", Image: "https://images.unsplash.com/photo-1580822184713-fc5400e7fe10?auto=format&fit=crop&q=80&w=500"},
}

var Desserts = []Option{
	{ID: string(DessertCake), Name: "Cake", Image: "https://images.unsplash.com/photo-1578985545062-69928b1d9587?auto=format&fit=crop&q=80&w=500"},
	{ID: string(DessertIceCream), Name: "Ice Cream", Image: "https://images.unsplash.com/photo-1497034825429-c343d7c6a68f?auto=format&fit=crop&q=80&w=500"},
	{ID: string(DessertPastries), Name: "Pastries", Image: "https://images.unsplash.com/photo-1517433670267-08bbd4be890f?auto=format&fit=crop&q=80&w=500"},
	{ID: string(DessertCookies), Name: "Cookies", Image: "https://images.unsplash.com/photo-1499636136210-6f4ee915583e?auto=format&fit=crop&q=80&w=500"},
}

func findOption(options []Option, id string) (Option, bool) {
	for _, o := range options {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}

func LookupCuisine(id string) (CuisineID, error) {
	if _, ok := findOption(Cuisines, id); !ok {
		return "", fmt.Errorf("cuisine %q: %w", id, ErrUnknownOption)
	}
	return CuisineID(id), nil
}

func LookupDessert(id string) (DessertID, error) {
	if _, ok := findOption(Desserts, id); !ok {
		return "", fmt.Errorf("dessert %q: %w", id, ErrUnknownOption)
	}
	return DessertID(id), nil
}

// OptionName returns the display name for id, or id itself when the
// catalog does not know it.
func OptionName(options []Option, id string) string {
	if o, ok := findOption(options, id); ok {
		return o.Name
	}
	return id
}
