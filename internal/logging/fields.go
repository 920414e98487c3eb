package logging

// Field name constants for structured logging.
// Using constants prevents typos and enables IDE autocomplete.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldInput      = "input"
	FieldOutput     = "output"
	FieldWorkingDir = "working_dir"
	FieldConfig     = "config"

	// Conversion fields.
	FieldCharset   = "charset"
	FieldStatus    = "status"
	FieldBackup    = "backup"
	FieldDryRun    = "dry_run"
	FieldJobs      = "jobs"
	FieldDuration  = "duration"
	FieldWarnings  = "warnings"
	FieldOverwrite = "overwrite"

	// Statistics fields.
	FieldFilesDiscovered = "files_discovered"
	FieldFilesConverted  = "files_converted"
	FieldFilesSkipped    = "files_skipped"
	FieldFilesFailed     = "files_failed"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
