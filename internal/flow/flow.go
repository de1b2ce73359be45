// Package flow implements the order dialogue: a forward-only sequence of
// choices with skips decided by menu attributes. Transitions are pure with
// respect to I/O; rendering and notifications are left to the transport.
package flow

import (
	"errors"

	"barista-bot/internal/menu"
	"barista-bot/internal/session"
)

// ErrInvalidSelection marks input that does not match any option offered
// by the current step (stale or replayed buttons included). The caller
// recovers by re-rendering the current prompt.
var ErrInvalidSelection = errors.New("selection does not match an offered option")

// Inputs with fixed vocabularies.
const (
	InputSyrupNone = "none"
	InputSyrupOne  = "one"
	InputSyrupTwo  = "two"
	InputCold      = "cold"
	InputHot       = "hot"
	InputConfirm   = "confirm"
	InputCancel    = "cancel"
)

// Option is one button of a choice prompt: visible label plus the input
// value sent back when pressed.
type Option struct {
	Label string
	Data  string
}

// Prompt is a rendering instruction for the transport.
type Prompt struct {
	Text    string
	Options []Option
}

// Outcome is the result of one transition. Exactly one of Prompt,
// Confirmed or Cancelled is meaningful: Confirmed carries a copy of the
// completed selections, and in both terminal cases the session has already
// been reset to the initial step.
type Outcome struct {
	Prompt    Prompt
	Confirmed bool
	Cancelled bool
	Result    session.Session
}

// Advance applies one input to the session and returns what to do next.
// On ErrInvalidSelection the session is left untouched.
func Advance(s *session.Session, input string, cat *menu.Catalog) (Outcome, error) {
	switch s.Step {
	case session.StepSelectDrinkType:
		if !contains(cat.DrinkTypes(), input) {
			return Outcome{}, ErrInvalidSelection
		}
		s.Category = input
		s.Step = session.StepSelectDrink

	case session.StepSelectDrink:
		if !contains(cat.DrinksByType(s.Category), input) {
			return Outcome{}, ErrInvalidSelection
		}
		attrs, err := cat.DrinkAttributes(input)
		if err != nil {
			return Outcome{}, ErrInvalidSelection
		}
		s.Drink = input
		s.DrinkAttrs = attrs
		if attrs.MilkCompatible {
			s.Step = session.StepSelectMilk
		} else {
			s.Milk = session.None
			s.Step = session.StepApproveSyrupCount
		}

	case session.StepSelectMilk:
		if !contains(cat.MilkOptions(), input) {
			return Outcome{}, ErrInvalidSelection
		}
		s.Milk = input
		s.Step = session.StepApproveSyrupCount

	case session.StepApproveSyrupCount:
		switch input {
		case InputSyrupNone:
			s.Syrup1 = session.None
			s.Syrup2 = session.None
			s.Step = session.StepSelectVolume
		case InputSyrupOne:
			s.Syrup1 = session.None
			s.Step = session.StepSelectSyrup2
		case InputSyrupTwo:
			s.Step = session.StepSelectSyrup1
		default:
			return Outcome{}, ErrInvalidSelection
		}

	case session.StepSelectSyrup1:
		if !contains(cat.SyrupOptions(), input) {
			return Outcome{}, ErrInvalidSelection
		}
		s.Syrup1 = input
		s.Step = session.StepSelectSyrup2

	case session.StepSelectSyrup2:
		if !contains(cat.SyrupOptions(), input) {
			return Outcome{}, ErrInvalidSelection
		}
		s.Syrup2 = input
		s.Step = session.StepSelectVolume

	case session.StepSelectVolume:
		// Volumes come from the attributes snapshot taken at drink
		// selection, so a mid-conversation menu refresh cannot offer a
		// volume the chosen drink never had.
		if !contains(s.DrinkAttrs.Volumes, input) {
			return Outcome{}, ErrInvalidSelection
		}
		s.Volume = input
		s.Step = session.StepSelectTemperature

	case session.StepSelectTemperature:
		switch input {
		case InputCold:
			s.Temperature = "холодный"
		case InputHot:
			s.Temperature = "горячий"
		default:
			return Outcome{}, ErrInvalidSelection
		}
		s.Step = session.StepConfirmOrder

	case session.StepConfirmOrder:
		switch input {
		case InputConfirm:
			done := *s
			s.Reset()
			return Outcome{Confirmed: true, Result: done}, nil
		case InputCancel:
			s.Reset()
			return Outcome{Cancelled: true}, nil
		default:
			return Outcome{}, ErrInvalidSelection
		}

	default:
		return Outcome{}, ErrInvalidSelection
	}

	return Outcome{Prompt: PromptFor(s, cat)}, nil
}

// PromptFor renders the choice prompt of the session's current step. Used
// on entry, after every transition and to re-ask after invalid input.
func PromptFor(s *session.Session, cat *menu.Catalog) Prompt {
	switch s.Step {
	case session.StepSelectDrinkType:
		return Prompt{Text: "Выберите категорию напитка:", Options: plainOptions(cat.DrinkTypes())}
	case session.StepSelectDrink:
		return Prompt{Text: "Пожалуйста, выберите напиток:", Options: plainOptions(cat.DrinksByType(s.Category))}
	case session.StepSelectMilk:
		return Prompt{Text: "Выберите тип молока:", Options: plainOptions(cat.MilkOptions())}
	case session.StepApproveSyrupCount:
		return Prompt{Text: "Сколько сиропов добавить?", Options: []Option{
			{Label: "Без сиропа", Data: InputSyrupNone},
			{Label: "Один", Data: InputSyrupOne},
			{Label: "Два", Data: InputSyrupTwo},
		}}
	case session.StepSelectSyrup1, session.StepSelectSyrup2:
		return Prompt{Text: "Выберите сироп:", Options: plainOptions(cat.SyrupOptions())}
	case session.StepSelectVolume:
		return Prompt{Text: "Выберите объем:", Options: plainOptions(s.DrinkAttrs.Volumes)}
	case session.StepSelectTemperature:
		return Prompt{Text: "Выберите температуру напитка:", Options: []Option{
			{Label: "Холодный", Data: InputCold},
			{Label: "Горячий", Data: InputHot},
		}}
	case session.StepConfirmOrder:
		return Prompt{Text: s.Summary() + "\nПодтвердите ваш заказ или отмените:", Options: []Option{
			{Label: "Подтвердить заказ", Data: InputConfirm},
			{Label: "Отменить заказ", Data: InputCancel},
		}}
	}
	return Prompt{}
}

func plainOptions(values []string) []Option {
	out := make([]Option, 0, len(values))
	for _, v := range values {
		out = append(out, Option{Label: v, Data: v})
	}
	return out
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
