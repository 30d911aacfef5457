package domain

// MenuRequestResult labels the outcome of a selection menu request.
type MenuRequestResult string

const (
	MenuRequestOpened  MenuRequestResult = "opened"
	MenuRequestBlocked MenuRequestResult = "blocked"
	MenuRequestFailed  MenuRequestResult = "failed"
)

// PersistResult labels the outcome of a selection write.
type PersistResult string

const (
	PersistResultSuccess PersistResult = "success"
	PersistResultFailure PersistResult = "failure"
)

// ReloadResult labels the outcome of a config reload.
type ReloadResult string

const (
	ReloadResultSuccess ReloadResult = "success"
	ReloadResultFailure ReloadResult = "failure"
)

// Metrics records operational metrics for tool option handling.
type Metrics interface {
	ObserveTick(kind ToolKind)
	SetSelectedOption(kind ToolKind, option int)
	ObserveMenuRequest(kind ToolKind, result MenuRequestResult)
	ObserveSelectionChange(kind ToolKind)
	ObserveControllerDisabled(kind ToolKind)
	ObservePersist(result PersistResult)
	ObserveConfigReload(result ReloadResult)
}
