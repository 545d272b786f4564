package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskLeadScoreAll = "leads.score_all"

const TaskConversationSnapshot = "conversations.snapshot"

type LeadScoreAllPayload struct {
	RequestedBy string `json:"requestedBy,omitempty"`
}

type ConversationSnapshotPayload struct {
	WindowHours int `json:"windowHours"`
}

func NewLeadScoreAllTask(payload LeadScoreAllPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLeadScoreAll, data), nil
}

func ParseLeadScoreAllPayload(task *asynq.Task) (LeadScoreAllPayload, error) {
	var payload LeadScoreAllPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return LeadScoreAllPayload{}, err
	}
	return payload, nil
}

func NewConversationSnapshotTask(payload ConversationSnapshotPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskConversationSnapshot, data), nil
}

func ParseConversationSnapshotPayload(task *asynq.Task) (ConversationSnapshotPayload, error) {
	var payload ConversationSnapshotPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return ConversationSnapshotPayload{}, err
	}
	return payload, nil
}
