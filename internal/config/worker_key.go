package config

type WorkerKeyStruct struct {
	GenerationRequestQueue string
	GenerationResultQueue  string
}

var WorkerKey = &WorkerKeyStruct{
	GenerationRequestQueue: "generation_request_queue",
	GenerationResultQueue:  "generation_result_queue",
}
