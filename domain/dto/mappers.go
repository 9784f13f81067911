package dto

import (
	"todoai/domain/models"
)

func UserToUserResponse(user *models.User) *UserResponse {
	if user == nil {
		return nil
	}
	return &UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Username:  user.Username,
		CreatedAt: user.CreatedAt,
	}
}

func TaskToTaskResponse(task *models.Task) *TaskResponse {
	if task == nil {
		return nil
	}
	return &TaskResponse{
		ID:           task.ID,
		Title:        task.Title,
		Duration:     task.DurationHours,
		Deadline:     task.Deadline,
		Priority:     task.Priority,
		Dependencies: task.DependencyIDs(),
		Completed:    task.Completed,
		Version:      task.Version,
		CreatedAt:    task.CreatedAt,
		UpdatedAt:    task.UpdatedAt,
	}
}

func TasksToTaskResponses(tasks []*models.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		if resp := TaskToTaskResponse(t); resp != nil {
			out = append(out, *resp)
		}
	}
	return out
}

func AnalysisToAnalysisResponse(result *models.AnalysisResult, cached bool) *AnalysisResponse {
	if result == nil {
		return nil
	}

	risks := make([]RiskResponse, 0, len(result.Risks))
	for _, r := range result.Risks {
		risks = append(risks, RiskResponse{
			TaskID:    r.TaskID,
			TaskTitle: r.TaskTitle,
			Message:   r.Message,
		})
	}

	suggestions := result.Suggestions
	if suggestions == nil {
		suggestions = []string{}
	}

	return &AnalysisResponse{
		Risks:       risks,
		Suggestions: suggestions,
		Provider:    result.Provider,
		Fallback:    result.IsFallback(),
		Cached:      cached,
		GeneratedAt: result.GeneratedAt,
	}
}
