package config

type WorkerKeyStruct struct {
	PersistAssignmentsQueue string
}

var WorkerKey = &WorkerKeyStruct{
	PersistAssignmentsQueue: "persist_assignments_queue",
}
