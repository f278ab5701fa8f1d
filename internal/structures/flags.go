package structures

type CliFlags struct {
	ConfigPath string
	SourcePath string
	DebugMode  bool
	DryRun     bool
	// DryRunSet distinguishes an explicit --dry-run=false from the flag being absent.
	DryRunSet bool
}
