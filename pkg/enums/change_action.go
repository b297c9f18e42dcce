package enums

// ChangeAction identifies a mutation announced on the change-notification bus.
type ChangeAction string

const (
	ChangeComponentCreated     ChangeAction = "component_created"
	ChangeComponentUpdated     ChangeAction = "component_updated"
	ChangePcbCreated           ChangeAction = "pcb_created"
	ChangeProductionCreated    ChangeAction = "production_created"
	ChangeProcurementFulfilled ChangeAction = "procurement_fulfilled"
	ChangeImportCompleted      ChangeAction = "import_completed"
)
