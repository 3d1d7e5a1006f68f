package requests

// Nil switches fall back to the labeler defaults from the config.
type ExtractFindings struct {
	Report       string `json:"report" validate:"required"`
	FollowOn     *bool  `json:"follow_on,omitempty"`
	SplitAnd     *bool  `json:"split_and,omitempty"`
	WholeWordAnd *bool  `json:"whole_word_and,omitempty"`
}

type KeyedReport struct {
	Key    string `json:"key" validate:"required"`
	Report string `json:"report" validate:"required"`
}

type BatchExtractFindings struct {
	Reports      []KeyedReport `json:"reports" validate:"required,min=1,max=1000,dive"`
	FollowOn     *bool         `json:"follow_on,omitempty"`
	SplitAnd     *bool         `json:"split_and,omitempty"`
	WholeWordAnd *bool         `json:"whole_word_and,omitempty"`
}
