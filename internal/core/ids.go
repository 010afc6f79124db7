package core

// Module ids substituted verbatim into generated import and export statements.
// They are part of the generated-code contract and must not change.
const (
	PublicCoreID     = "@bifrost/core"
	InternalClientID = "@bifrost/core/internal/client"
	AppDataID        = "@bifrost/core/internal/app-data"
	AppGlobalsID     = "@bifrost/core/internal/app-globals"
	UserIndexEntryID = "@user-index-entrypoint"
	CoreEntrypointID = "@core-entrypoint"
)

const OutputTargetDistCustomElementsBundle = "dist-custom-elements-bundle"
