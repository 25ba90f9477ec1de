package handler

import (
	"fmt"
	"strings"

	"DatePlanBot/document"
	"DatePlanBot/model"
	"DatePlanBot/wizard"
)

const (
	helpText = "I'm your date planner. Use /start to plan a date, /back to go one step back, or /cancel to stop."

	failedPDFText = "Failed to generate PDF. Please try again."
	noPlaceText   = "I couldn't find that place. Try another search."
	noSessionText = "Use /start to plan a date."
	unknownText   = "I didn't understand that. Use /help."
)

// prompt is the text shown for step, with the answers given so far.
func prompt(step wizard.Step, a model.Answers, clock wizard.Clock) string {
	var sb strings.Builder
	switch step {
	case wizard.StepIntro:
		sb.WriteString("Date Planner\nLet's plan something special!\n\n")
		if a.HasRecipient() {
			fmt.Fprintf(&sb, "Hi %s! Tap Next when you're ready.", a.RecipientName)
		} else {
			sb.WriteString("What's your sweet name?")
		}
	case wizard.StepDateTime:
		sb.WriteString("Pick a Date & Time\nWhen would you like to go on a date?\n\n")
		if a.When != nil {
			fmt.Fprintf(&sb, "Selected: %s\n", document.FormatWhen(*a.When))
		} else {
			sb.WriteString("Pick a day from the calendar.\n")
		}
		fmt.Fprintf(&sb, "Time: %s (send HH:MM to change it)", clock)
	case wizard.StepCuisine:
		sb.WriteString("What would you like to eat?")
	case wizard.StepDessert:
		sb.WriteString("Choose a Dessert\nWhat's your favorite sweet treat?")
	case wizard.StepActivities:
		sb.WriteString("What do you wanna do next?\nAny other places or things you'd like to visit and do? Send them as a message, or tap Next to skip.")
		if a.Activities != "" {
			fmt.Fprintf(&sb, "\n\nSo far:\n%s", a.Activities)
		}
	case wizard.StepLocation:
		sb.WriteString("Pick a Location\nWhere would you like to meet? Send a place name to search, or share your location to search nearby.")
		if a.Place != nil {
			fmt.Fprintf(&sb, "\n\nChosen: %s", placeLabel(*a.Place))
		}
	case wizard.StepDone:
		sb.WriteString("You're the sweetest thing in my life! 💕\nCan't wait for our date!\n\nYour date plan has been downloaded!")
	}
	return sb.String()
}

// hint explains why Next did not move away from step.
func hint(step wizard.Step) string {
	switch step {
	case wizard.StepIntro:
		return "Please tell me your name first."
	case wizard.StepDateTime:
		return "Please pick a day first."
	case wizard.StepCuisine:
		return "Please pick a cuisine first."
	case wizard.StepDessert:
		return "Please pick a dessert first."
	case wizard.StepLocation:
		return "Please pick a place first."
	}
	return unknownText
}

func placeLabel(p model.PlaceRef) string {
	switch {
	case p.DisplayName != "" && p.FormattedAddress != "":
		return p.DisplayName + ", " + p.FormattedAddress
	case p.DisplayName != "":
		return p.DisplayName
	}
	return p.FormattedAddress
}

// optionLabel marks the selected tile of a food grid.
func optionLabel(o model.Option, selected string) string {
	if o.ID == selected {
		return "✅ " + o.Name
	}
	return o.Name
}

func generateLabel(step wizard.Step) string {
	if step == wizard.StepDone {
		return "Download Again"
	}
	return "Download Plan"
}

// celebrationCaption is drawn on the confetti card, so it stays ASCII.
func celebrationCaption(a model.Answers) []string {
	if !a.HasRecipient() {
		return []string{"Can't wait for our date!"}
	}
	return []string{"See you soon, " + a.RecipientName + "!", "Can't wait for our date!"}
}
