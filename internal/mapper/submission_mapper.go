package mapper

import (
	"datahub-portal-be/internal/entity"
	"datahub-portal-be/internal/model"
)

type SubmissionMapper struct{}

func NewSubmissionMapper() *SubmissionMapper {
	return &SubmissionMapper{}
}

func (m *SubmissionMapper) ToEntity(s *model.Submission) *entity.Submission {
	if s == nil {
		return nil
	}
	return &entity.Submission{
		Id:               s.Id,
		Name:             s.Name,
		StudyId:          s.StudyId,
		OrganizationId:   s.OrganizationId,
		OrganizationName: s.OrganizationName,
		ConciergeName:    s.ConciergeName,
		ConciergeEmail:   s.ConciergeEmail,
		Status:           entity.SubmissionStatus(s.Status),
		SubmitterId:      s.SubmitterId,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}
}

func (m *SubmissionMapper) ToModel(s *entity.Submission) *model.Submission {
	if s == nil {
		return nil
	}
	return &model.Submission{
		Id:               s.Id,
		Name:             s.Name,
		StudyId:          s.StudyId,
		OrganizationId:   s.OrganizationId,
		OrganizationName: s.OrganizationName,
		ConciergeName:    s.ConciergeName,
		ConciergeEmail:   s.ConciergeEmail,
		Status:           string(s.Status),
		SubmitterId:      s.SubmitterId,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}
}

func (m *SubmissionMapper) ToEntities(subs []*model.Submission) []*entity.Submission {
	entities := make([]*entity.Submission, len(subs))
	for i, s := range subs {
		entities[i] = m.ToEntity(s)
	}
	return entities
}
