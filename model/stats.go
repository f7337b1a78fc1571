package model

type GraphStats struct {
	EntityCounts struct {
		Users   int64 `json:"users"`
		Folders int64 `json:"folders"`
		Notes   int64 `json:"notes"`
		Tasks   int64 `json:"tasks"`
		Pets    int64 `json:"pets"`
	} `json:"entity_counts"`
	TaskStats struct {
		Pending   int64 `json:"pending"`
		Completed int64 `json:"completed"`
		Overdue   int64 `json:"overdue"`
	} `json:"task_stats"`
	PetStats struct {
		LevelCounts map[int]int64 `json:"level_counts"`
		MaxLevel    int           `json:"max_level"`
	} `json:"pet_stats"`
}
