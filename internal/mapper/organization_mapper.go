package mapper

import (
	"datahub-portal-be/internal/entity"
	"datahub-portal-be/internal/model"
)

type OrganizationMapper struct {
	studies *StudyMapper
}

func NewOrganizationMapper() *OrganizationMapper {
	return &OrganizationMapper{studies: NewStudyMapper()}
}

func (m *OrganizationMapper) ToEntity(o *model.Organization) *entity.Organization {
	if o == nil {
		return nil
	}

	return &entity.Organization{
		Id:             o.Id,
		Name:           o.Name,
		Abbreviation:   o.Abbreviation,
		Description:    o.Description,
		Status:         entity.OrganizationStatus(o.Status),
		ConciergeId:    o.ConciergeId,
		ConciergeName:  o.ConciergeName,
		ConciergeEmail: o.ConciergeEmail,
		Studies:        m.studies.ToEntities(o.Studies),
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}
}

// ToModel leaves Studies empty; the association is written separately.
func (m *OrganizationMapper) ToModel(o *entity.Organization) *model.Organization {
	if o == nil {
		return nil
	}

	return &model.Organization{
		Id:             o.Id,
		Name:           o.Name,
		Abbreviation:   o.Abbreviation,
		Description:    o.Description,
		Status:         string(o.Status),
		ConciergeId:    o.ConciergeId,
		ConciergeName:  o.ConciergeName,
		ConciergeEmail: o.ConciergeEmail,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}
}

func (m *OrganizationMapper) ToEntities(orgs []*model.Organization) []*entity.Organization {
	entities := make([]*entity.Organization, len(orgs))
	for i, o := range orgs {
		entities[i] = m.ToEntity(o)
	}
	return entities
}
