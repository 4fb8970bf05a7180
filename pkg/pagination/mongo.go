package pagination

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoSort renders the sort keys as a $sort document. Nested paths keep
// their dotted form, which Mongo resolves into embedded documents.
func (q Query) MongoSort() bson.D {
	sort := bson.D{}
	for _, f := range q.Sort {
		order := 1
		if f.Direction == Desc {
			order = -1
		}
		sort = append(sort, bson.E{Key: f.Name(), Value: order})
	}
	return sort
}

// MongoPipeline returns the aggregation stages for one page. A nil match
// matches every document.
func (q Query) MongoPipeline(match bson.D) mongo.Pipeline {
	pipeline := mongo.Pipeline{}
	if len(match) > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: match}})
	}
	if len(q.Sort) > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$sort", Value: q.MongoSort()}})
	}
	if q.Skip > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$skip", Value: int64(q.Skip)}})
	}
	if !q.Unbounded && q.Limit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: int64(q.Limit)}})
	}
	return pipeline
}
