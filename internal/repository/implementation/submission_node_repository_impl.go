package implementation

import (
	"context"

	"datahub-portal-be/internal/entity"
	"datahub-portal-be/internal/mapper"
	"datahub-portal-be/internal/model"
	"datahub-portal-be/internal/repository/contract"
	"datahub-portal-be/internal/repository/specification"
	"datahub-portal-be/pkg/pagination"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var nodeSQLColumns = pagination.SQLColumns{
	Table:   "submission_nodes",
	JSON:    map[string]bool{"properties": true},
	Aliases: specification.NodeColumns,
}

type SubmissionNodeRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SubmissionNodeMapper
}

func NewSubmissionNodeRepository(db *gorm.DB) contract.SubmissionNodeRepository {
	return &SubmissionNodeRepositoryImpl{
		db:     db,
		mapper: mapper.NewSubmissionNodeMapper(),
	}
}

func (r *SubmissionNodeRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *SubmissionNodeRepositoryImpl) selectorSpecs(sel contract.NodeSelector) []specification.Specification {
	specs := []specification.Specification{specification.ByNodeFilter{Filter: sel.Filter}}
	if sel.IncludeIds != nil {
		specs = append(specs, specification.ByNodeRowIDs{IDs: parseRowIDs(sel.IncludeIds)})
	}
	if len(sel.ExcludeIds) > 0 {
		specs = append(specs, specification.ExcludeNodeRowIDs{IDs: parseRowIDs(sel.ExcludeIds)})
	}
	return specs
}

func (r *SubmissionNodeRepositoryImpl) List(ctx context.Context, sel contract.NodeSelector, q pagination.Query) ([]*entity.SubmissionNode, int64, error) {
	specs := r.selectorSpecs(sel)

	var total int64
	countQuery := r.applySpecifications(r.db.WithContext(ctx).Model(&model.SubmissionNode{}), specs...)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var models []*model.SubmissionNode
	specs = append(specs, specification.Page{Query: q, Columns: nodeSQLColumns})
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Order("id ASC").Find(&models).Error; err != nil {
		return nil, 0, err
	}
	return r.mapper.ToEntities(models), total, nil
}

func (r *SubmissionNodeRepositoryImpl) Delete(ctx context.Context, sel contract.NodeSelector) (int64, error) {
	query := r.applySpecifications(r.db.WithContext(ctx), r.selectorSpecs(sel)...)
	res := query.Delete(&model.SubmissionNode{})
	return res.RowsAffected, res.Error
}

func (r *SubmissionNodeRepositoryImpl) CreateBulk(ctx context.Context, nodes []*entity.SubmissionNode) error {
	if len(nodes) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(r.mapper.ToModels(nodes), 500).Error
}

// parseRowIDs drops ids that are not uuids; they cannot match a row.
func parseRowIDs(raw []string) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		if id, err := uuid.Parse(s); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}
