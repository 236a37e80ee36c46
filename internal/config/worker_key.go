package config

type WorkerKeyStruct struct {
	PersistTimingsQueue string
}

var WorkerKey = &WorkerKeyStruct{
	PersistTimingsQueue: "persist_timings_queue",
}
