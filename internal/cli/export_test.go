package cli

// Test-only exports for internal helpers.
var (
	DeriveOutputPath      = deriveOutputPath
	WarnExtensionMismatch = warnExtensionMismatch
)
