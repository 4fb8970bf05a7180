package mapper

import (
	"datahub-portal-be/internal/entity"
	"datahub-portal-be/internal/model"
)

type StudyMapper struct{}

func NewStudyMapper() *StudyMapper {
	return &StudyMapper{}
}

func (m *StudyMapper) ToEntity(s *model.ApprovedStudy) *entity.ApprovedStudy {
	if s == nil {
		return nil
	}
	return &entity.ApprovedStudy{
		Id:                s.Id,
		StudyName:         s.StudyName,
		StudyAbbreviation: s.StudyAbbreviation,
		DbGaPID:           s.DbGaPID,
		ControlledAccess:  s.ControlledAccess,
		CreatedAt:         s.CreatedAt,
	}
}

func (m *StudyMapper) ToModel(s *entity.ApprovedStudy) *model.ApprovedStudy {
	if s == nil {
		return nil
	}
	return &model.ApprovedStudy{
		Id:                s.Id,
		StudyName:         s.StudyName,
		StudyAbbreviation: s.StudyAbbreviation,
		DbGaPID:           s.DbGaPID,
		ControlledAccess:  s.ControlledAccess,
		CreatedAt:         s.CreatedAt,
	}
}

func (m *StudyMapper) ToEntities(studies []*model.ApprovedStudy) []*entity.ApprovedStudy {
	entities := make([]*entity.ApprovedStudy, len(studies))
	for i, s := range studies {
		entities[i] = m.ToEntity(s)
	}
	return entities
}

func (m *StudyMapper) ToModels(studies []*entity.ApprovedStudy) []*model.ApprovedStudy {
	models := make([]*model.ApprovedStudy, len(studies))
	for i, s := range studies {
		models[i] = m.ToModel(s)
	}
	return models
}
