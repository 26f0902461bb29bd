package refresh

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const refreshMessageType = "mdgen.compiler.refresh"

// Command triggers an incremental batch compile of the Markdown source
// namespace. Directory optionally narrows the run to a sub-tree of the
// source root; empty means everything.
type Command struct {
	// Directory restricts compilation to sources under this prefix.
	Directory string `json:"directory,omitempty"`
	// DryRun reports what the run would compile without writing artifacts.
	DryRun bool `json:"dry_run,omitempty"`
}

// Type implements command.Message.
func (Command) Type() string { return refreshMessageType }

// Validate rejects directory values that escape the source namespace.
func (cmd Command) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Directory, validation.By(func(value any) error {
			dir := value.(string)
			if strings.Contains(dir, "..") {
				return validation.NewError(
					"mdgen.compiler.refresh.directory_invalid",
					"directory must not traverse outside the source root",
				)
			}
			return nil
		})),
	)
}
