package transport

// CreateTaskRequest carries the payload for creating a task.
type CreateTaskRequest struct {
	Title        string   `json:"title"`
	Section      string   `json:"section"`
	Description  string   `json:"description"`
	Requirements string   `json:"requirements"`
	Priority     int      `json:"priority"`
	DueDate      string   `json:"due_date"`
	ResetWeekday *int     `json:"reset_weekday"`
	ResetTime    string   `json:"reset_time"`
	SortOrder    int      `json:"sort_order"`
	Tags         []string `json:"tags"`
}

// UpdateTaskRequest carries a partial update. Absent fields stay untouched;
// a non-nil Tags slice replaces the task's tag set wholesale.
type UpdateTaskRequest struct {
	Title        *string  `json:"title"`
	Description  *string  `json:"description"`
	Requirements *string  `json:"requirements"`
	Priority     *int     `json:"priority"`
	Section      *string  `json:"section"`
	IsCompleted  *bool    `json:"is_completed"`
	DueDate      *string  `json:"due_date"`
	ResetWeekday *int     `json:"reset_weekday"`
	ResetTime    *string  `json:"reset_time"`
	SortOrder    *int     `json:"sort_order"`
	Tags         []string `json:"tags"`
}

// RenameTagRequest carries the new name for an existing tag.
type RenameTagRequest struct {
	Name string `json:"name"`
}

// MergeTagsRequest folds the source tag into the target tag.
type MergeTagsRequest struct {
	SourceID int64 `json:"source_id"`
	TargetID int64 `json:"target_id"`
}

// ResetTimeRequest sets the global daily reset time.
type ResetTimeRequest struct {
	Value string `json:"value"`
}

// AppStateRequest writes one application state entry.
type AppStateRequest struct {
	Value string `json:"value"`
}
