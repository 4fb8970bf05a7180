package mongostore

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"datahub-portal-be/internal/entity"
	"datahub-portal-be/internal/repository/contract"
	"datahub-portal-be/pkg/pagination"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const DataRecordsCollection = "dataRecords"

// documentFields maps logical sort roots onto document field names.
var documentFields = map[string]string{
	"nodeId":     "nodeID",
	"properties": "props",
}

type nodeDocument struct {
	ID           string                 `bson:"_id"`
	SubmissionID string                 `bson:"submissionID"`
	NodeType     string                 `bson:"nodeType"`
	NodeID       string                 `bson:"nodeID"`
	Status       string                 `bson:"status"`
	Props        map[string]interface{} `bson:"props"`
	CreatedAt    time.Time              `bson:"createdAt"`
	UpdatedAt    time.Time              `bson:"updatedAt"`
}

type SubmissionNodeRepository struct {
	coll *mongo.Collection
}

func NewSubmissionNodeRepository(db *mongo.Database) contract.SubmissionNodeRepository {
	return &SubmissionNodeRepository{coll: db.Collection(DataRecordsCollection)}
}

// Match builds the $match document for a selector.
func Match(sel contract.NodeSelector) bson.D {
	f := sel.Filter
	match := bson.D{}
	if f.SubmissionId != uuid.Nil {
		match = append(match, bson.E{Key: "submissionID", Value: f.SubmissionId.String()})
	}
	if f.NodeType != "" {
		match = append(match, bson.E{Key: "nodeType", Value: f.NodeType})
	}
	if f.Status != "" {
		match = append(match, bson.E{Key: "status", Value: f.Status})
	}
	if f.Search != "" {
		match = append(match, bson.E{Key: "$or", Value: searchClauses(f.Search)})
	}

	switch {
	case sel.IncludeIds != nil && len(sel.ExcludeIds) > 0:
		match = append(match, bson.E{Key: "_id", Value: bson.M{"$in": sel.IncludeIds, "$nin": sel.ExcludeIds}})
	case sel.IncludeIds != nil:
		match = append(match, bson.E{Key: "_id", Value: bson.M{"$in": sel.IncludeIds}})
	case len(sel.ExcludeIds) > 0:
		match = append(match, bson.E{Key: "_id", Value: bson.M{"$nin": sel.ExcludeIds}})
	}
	return match
}

// searchClauses matches the node id or any top-level property value as a
// case-insensitive substring. Values that do not convert to a string never
// match.
func searchClauses(search string) bson.A {
	pattern := regexp.QuoteMeta(search)
	return bson.A{
		bson.M{"nodeID": bson.M{"$regex": pattern, "$options": "i"}},
		bson.M{"$expr": bson.M{"$anyElementTrue": bson.A{bson.M{"$map": bson.M{
			"input": bson.M{"$objectToArray": bson.M{"$ifNull": bson.A{"$props", bson.M{}}}},
			"as":    "prop",
			"in": bson.M{"$regexMatch": bson.M{
				"input": bson.M{"$convert": bson.M{
					"input":   "$$prop.v",
					"to":      "string",
					"onError": "",
					"onNull":  "",
				}},
				"regex":   pattern,
				"options": "i",
			}},
		}}}}},
	}
}

// Pipeline renders one page of records. _id breaks ties so pages are stable.
func Pipeline(sel contract.NodeSelector, q pagination.Query) mongo.Pipeline {
	q = q.RenameRoots(documentFields)
	q = q.WithSort(append(q.Sort, pagination.SortField{Path: []string{"_id"}, Direction: pagination.Asc}))
	return q.MongoPipeline(Match(sel))
}

func (r *SubmissionNodeRepository) List(ctx context.Context, sel contract.NodeSelector, q pagination.Query) ([]*entity.SubmissionNode, int64, error) {
	match := Match(sel)
	total, err := r.coll.CountDocuments(ctx, match)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count records: %w", err)
	}

	cursor, err := r.coll.Aggregate(ctx, Pipeline(sel, q))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list records: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []nodeDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("failed to decode records: %w", err)
	}

	nodes := make([]*entity.SubmissionNode, 0, len(docs))
	for i := range docs {
		nodes = append(nodes, toEntity(&docs[i]))
	}
	return nodes, total, nil
}

func (r *SubmissionNodeRepository) Delete(ctx context.Context, sel contract.NodeSelector) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, Match(sel))
	if err != nil {
		return 0, fmt.Errorf("failed to delete records: %w", err)
	}
	return res.DeletedCount, nil
}

func (r *SubmissionNodeRepository) CreateBulk(ctx context.Context, nodes []*entity.SubmissionNode) error {
	if len(nodes) == 0 {
		return nil
	}
	docs := make([]interface{}, len(nodes))
	for i, n := range nodes {
		docs[i] = toDocument(n)
	}
	if _, err := r.coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert records: %w", err)
	}
	return nil
}

func toEntity(d *nodeDocument) *entity.SubmissionNode {
	id, _ := uuid.Parse(d.ID)
	submissionID, _ := uuid.Parse(d.SubmissionID)
	props := d.Props
	if props == nil {
		props = map[string]interface{}{}
	}
	return &entity.SubmissionNode{
		Id:           id,
		SubmissionId: submissionID,
		NodeType:     d.NodeType,
		NodeId:       d.NodeID,
		Status:       entity.NodeStatus(d.Status),
		Properties:   props,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

func toDocument(n *entity.SubmissionNode) nodeDocument {
	id := n.Id
	if id == uuid.Nil {
		id = uuid.New()
	}
	now := time.Now()
	created, updated := n.CreatedAt, n.UpdatedAt
	if created.IsZero() {
		created = now
	}
	if updated.IsZero() {
		updated = now
	}
	return nodeDocument{
		ID:           id.String(),
		SubmissionID: n.SubmissionId.String(),
		NodeType:     n.NodeType,
		NodeID:       n.NodeId,
		Status:       string(n.Status),
		Props:        n.Properties,
		CreatedAt:    created,
		UpdatedAt:    updated,
	}
}
