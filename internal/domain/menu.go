package domain

import "strconv"

// MenuChoice is one entry of the selection dialog.
type MenuChoice struct {
	Key      string `json:"key"`
	LabelKey string `json:"labelKey"`
	Current  bool   `json:"current,omitempty"`
}

// MenuSpec describes a selection dialog for the host to render.
// The outcome comes back through a selection event carrying the chosen key.
type MenuSpec struct {
	Tool             ToolKind     `json:"tool"`
	PromptKey        string       `json:"promptKey"`
	CurrentOptionKey string       `json:"currentOptionKey"`
	Choices          []MenuChoice `json:"choices"`
}

// OptionLabelKey returns the translation key for option i.
func OptionLabelKey(i int) string {
	return optionLabelKeyPrefix + strconv.Itoa(i)
}

// ChoiceKey returns the response key used for option i.
func ChoiceKey(i int) string {
	return strconv.Itoa(i)
}

// ParseChoiceKey parses a response key back into an option index.
func ParseChoiceKey(key string) (int, error) {
	value, err := strconv.Atoi(key)
	if err != nil {
		return 0, E(CodeInvalidArgument, "parse choice", "choice key "+strconv.Quote(key)+" is not an integer", ErrInvalidChoice)
	}
	return value, nil
}
