// Package constants provides shared constants used throughout the gradesync codebase.
// This includes matching defaults, gradebook column names, file permissions, and other
// values that should be consistent across the library and the CLI.
package constants

import "time"

// Reconciliation defaults
const (
	// DefaultThreshold is the minimum similarity (0-100) for two identities to be considered the same student
	DefaultThreshold = 80

	// DefaultScaleDivisor converts secondary scores (0-100) onto the primary scale (0-10)
	DefaultScaleDivisor = 10.0

	// DefaultExemptToken marks a cell as exempt from grading
	DefaultExemptToken = "EX"

	// DefaultAssignmentPattern recognizes "Homework <N>-<M>" at the start of a column label
	DefaultAssignmentPattern = `^Homework\s*\d+-\d+`

	// DefaultWorkers is the number of identity matching workers (1 means sequential)
	DefaultWorkers = 1

	// MaxSimilarity is the score of two identical identities
	MaxSimilarity = 100

	// DefaultPolicy is the merge policy name
	DefaultPolicy = "highest-score"
)

// Input discovery defaults, matching the LMS and practice-platform export names
const (
	// DefaultPrimaryGlob matches LMS gradebook exports such as "2024-11-29T2249_Grades-ALGEBRA_2.csv"
	DefaultPrimaryGlob = "*_Grades-*.csv"

	// DefaultSecondaryGlob matches practice-platform exports such as "Multiple-Assignments-(11-27-24).xlsx"
	DefaultSecondaryGlob = "Multiple-Assignments-*.{xlsx,csv}"
)

// Gradebook column names
const (
	// ColumnStudent holds the full student name in both gradebooks
	ColumnStudent = "Student"

	// ColumnID is the LMS numeric user ID
	ColumnID = "ID"

	// ColumnSISUserID is the student information system user ID
	ColumnSISUserID = "SIS User ID"

	// ColumnSISLoginID is the student information system login
	ColumnSISLoginID = "SIS Login ID"

	// ColumnSection is the course section
	ColumnSection = "Section"

	// ColumnLast is the secondary gradebook last-name column
	ColumnLast = "Last"

	// ColumnFirst is the secondary gradebook first-name column
	ColumnFirst = "First"

	// ColumnClass is the secondary gradebook class column
	ColumnClass = "Class"
)

// IdentityColumns are the primary passthrough columns kept by homework-only output.
var IdentityColumns = []string{
	ColumnStudent,
	ColumnID,
	ColumnSISUserID,
	ColumnSISLoginID,
	ColumnSection,
}

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Timeout constants
const (
	// CommandTimeout is the default timeout for CLI commands
	CommandTimeout = 5 * time.Minute

	// ShutdownTimeout bounds graceful shutdown after a failed command
	ShutdownTimeout = 5 * time.Second
)

// Environment and config file names
const (
	// EnvPrefix prefixes every gradesync environment variable
	EnvPrefix = "GRADESYNC"

	// ConfigFileName is the config file searched for in $HOME and the working directory
	ConfigFileName = ".gradesync"
)
