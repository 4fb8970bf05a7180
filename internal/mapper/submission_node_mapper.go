package mapper

import (
	"datahub-portal-be/internal/entity"
	"datahub-portal-be/internal/model"

	"gorm.io/datatypes"
)

type SubmissionNodeMapper struct{}

func NewSubmissionNodeMapper() *SubmissionNodeMapper {
	return &SubmissionNodeMapper{}
}

func (m *SubmissionNodeMapper) ToEntity(n *model.SubmissionNode) *entity.SubmissionNode {
	if n == nil {
		return nil
	}

	props := map[string]interface{}(n.Properties)
	if props == nil {
		props = map[string]interface{}{}
	}

	return &entity.SubmissionNode{
		Id:           n.Id,
		SubmissionId: n.SubmissionId,
		NodeType:     n.NodeType,
		NodeId:       n.NodeId,
		Status:       entity.NodeStatus(n.Status),
		Properties:   props,
		CreatedAt:    n.CreatedAt,
		UpdatedAt:    n.UpdatedAt,
	}
}

func (m *SubmissionNodeMapper) ToModel(n *entity.SubmissionNode) *model.SubmissionNode {
	if n == nil {
		return nil
	}
	return &model.SubmissionNode{
		Id:           n.Id,
		SubmissionId: n.SubmissionId,
		NodeType:     n.NodeType,
		NodeId:       n.NodeId,
		Status:       string(n.Status),
		Properties:   datatypes.JSONMap(n.Properties),
		CreatedAt:    n.CreatedAt,
		UpdatedAt:    n.UpdatedAt,
	}
}

func (m *SubmissionNodeMapper) ToEntities(nodes []*model.SubmissionNode) []*entity.SubmissionNode {
	entities := make([]*entity.SubmissionNode, len(nodes))
	for i, n := range nodes {
		entities[i] = m.ToEntity(n)
	}
	return entities
}

func (m *SubmissionNodeMapper) ToModels(nodes []*entity.SubmissionNode) []*model.SubmissionNode {
	models := make([]*model.SubmissionNode, len(nodes))
	for i, n := range nodes {
		models[i] = m.ToModel(n)
	}
	return models
}
