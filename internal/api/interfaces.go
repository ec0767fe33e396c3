package api

type AddTaskRequest struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	ScheduledTime string `json:"scheduledTime"`
	Date          string `json:"date,omitempty"`
}

type UpdateTaskRequest struct {
	Title         *string `json:"title,omitempty"`
	Description   *string `json:"description,omitempty"`
	ScheduledTime *string `json:"scheduledTime,omitempty"`
	Date          *string `json:"date,omitempty"`
	Notes         *string `json:"notes,omitempty"`
}

type CompleteTaskRequest struct {
	Proof string `json:"proof"`
}
