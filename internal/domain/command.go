package domain

// CommandName is an asynchronous summary log command.
type CommandName string

const (
	CommandValidate CommandName = "validate"
	CommandSubmit   CommandName = "submit"
)

// Command is a request to process a summary log, delivered at least once.
type Command struct {
	Name         CommandName `json:"command" validate:"required,oneof=validate submit"`
	SummaryLogID string      `json:"summaryLogId" validate:"required"`
	User         *UserRef    `json:"user,omitempty"`
}
