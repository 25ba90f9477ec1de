package model

import (
	"strings"
	"time"
)

// Answers is everything the recipient chose while going through the
// wizard. It is a value: the With* methods return an edited copy and
// never touch the receiver.
type Answers struct {
	RecipientName string     `yaml:"recipientName"`
	When          *time.Time `yaml:"when"`
	Cuisine       CuisineID  `yaml:"cuisine"`
	Dessert       DessertID  `yaml:"dessert"`
	Activities    string     `yaml:"activities"`
	Place         *PlaceRef  `yaml:"place"`
}

func (a Answers) WithRecipientName(name string) Answers {
	a.RecipientName = name
	return a
}

func (a Answers) WithWhen(t time.Time) Answers {
	a.When = &t
	return a
}

func (a Answers) WithoutWhen() Answers {
	a.When = nil
	return a
}

func (a Answers) WithCuisine(id CuisineID) Answers {
	a.Cuisine = id
	return a
}

func (a Answers) WithDessert(id DessertID) Answers {
	a.Dessert = id
	return a
}

func (a Answers) WithActivities(text string) Answers {
	a.Activities = text
	return a
}

func (a Answers) WithPlace(p PlaceRef) Answers {
	a.Place = &p
	return a
}

// HasRecipient reports whether a non-blank name was given.
func (a Answers) HasRecipient() bool {
	return strings.TrimSpace(a.RecipientName) != ""
}

// Validate checks the fields the invitation cannot be built without.
func (a Answers) Validate() error {
	switch {
	case a.When == nil:
		return &MissingFieldError{Field: "when"}
	case a.Place == nil:
		return &MissingFieldError{Field: "place"}
	}
	return nil
}
