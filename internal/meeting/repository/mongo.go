package repository

import (
	"context"
	"regexp"
	"time"

	"github.com/mplazax/meeting-syntesis/internal/meeting"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepository implements Repository on a MongoDB collection.
type MongoRepository struct {
	col *mongo.Collection
}

func NewMongoRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) GetByID(ctx context.Context, id string) (*meeting.Meeting, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	var m meeting.Meeting
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&m); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *MongoRepository) GetAll(ctx context.Context) ([]*meeting.Meeting, error) {
	return r.findMany(ctx, bson.M{}, nil)
}

func (r *MongoRepository) GetFiltered(ctx context.Context, f Filter) ([]*meeting.Meeting, error) {
	conditions := []bson.M{}

	if f.Query != "" {
		// case-insensitive substring match on title
		conditions = append(conditions, bson.M{"title": bson.M{
			"$regex": regexp.QuoteMeta(f.Query), "$options": "i",
		}})
	}
	if len(f.ProjectIDs) > 0 {
		oids := make([]primitive.ObjectID, 0, len(f.ProjectIDs))
		for _, pid := range f.ProjectIDs {
			if oid, err := primitive.ObjectIDFromHex(pid); err == nil {
				oids = append(oids, oid)
			}
		}
		if len(oids) > 0 {
			conditions = append(conditions, bson.M{"projectId": bson.M{"$in": oids}})
		}
	}
	if len(f.Tags) > 0 {
		conditions = append(conditions, bson.M{"tags": bson.M{"$in": f.Tags}})
	}

	query := bson.M{}
	if len(conditions) > 0 {
		query = bson.M{"$and": conditions}
	}
	return r.findMany(ctx, query, sortOrder(f.SortBy))
}

// sortOrder maps a sort key onto a Mongo sort document. Unknown keys fall
// back to newest-first.
func sortOrder(sortBy string) bson.D {
	switch sortBy {
	case SortOldest:
		return bson.D{{Key: "meetingDatetime", Value: 1}}
	case SortDurationDesc:
		return bson.D{{Key: "durationSeconds", Value: -1}}
	case SortDurationAsc:
		return bson.D{{Key: "durationSeconds", Value: 1}}
	default:
		return bson.D{{Key: "meetingDatetime", Value: -1}}
	}
}

func (r *MongoRepository) GetByProject(ctx context.Context, projectID string) ([]*meeting.Meeting, error) {
	oid, err := primitive.ObjectIDFromHex(projectID)
	if err != nil {
		return []*meeting.Meeting{}, nil
	}
	return r.findMany(ctx, bson.M{"projectId": oid}, nil)
}

func (r *MongoRepository) findMany(ctx context.Context, query bson.M, sort bson.D) ([]*meeting.Meeting, error) {
	opts := options.Find()
	if sort != nil {
		opts.SetSort(sort)
	}
	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*meeting.Meeting{}
	for cur.Next(ctx) {
		var m meeting.Meeting
		if err := cur.Decode(&m); err != nil {
			return nil, err
		}
		out = append(out, &m)
	}
	return out, cur.Err()
}

func (r *MongoRepository) Insert(ctx context.Context, m *meeting.Meeting) (*meeting.Meeting, error) {
	now := time.Now().UTC()
	m.UploadedAt = now
	m.LastUpdatedAt = now
	if m.ProcessingStatus.CurrentStage == "" {
		m.ProcessingStatus.CurrentStage = meeting.StagePending
	}
	res, err := r.col.InsertOne(ctx, m)
	if err != nil {
		return nil, err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		m.ID = oid
	}
	return m, nil
}

func (r *MongoRepository) Update(ctx context.Context, id string, u meeting.Update) (*meeting.Meeting, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	if u.IsEmpty() {
		// no-op success: hand back the current record untouched
		return r.GetByID(ctx, id)
	}

	set := bson.M{"lastUpdatedAt": time.Now().UTC()}
	if u.Title != nil {
		set["title"] = *u.Title
	}
	if u.ProjectID != nil {
		set["projectId"] = *u.ProjectID
	}
	if u.Tags != nil {
		set["tags"] = *u.Tags
	}
	if u.MeetingDatetime != nil {
		set["meetingDatetime"] = *u.MeetingDatetime
	}
	if u.DurationSeconds != nil {
		set["durationSeconds"] = *u.DurationSeconds
	}
	if u.ProcessingStatus != nil {
		set["processingStatus"] = *u.ProcessingStatus
	}
	if u.Transcription != nil {
		set["transcription"] = *u.Transcription
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated meeting.Meeting
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&updated); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &updated, nil
}

func (r *MongoRepository) Delete(ctx context.Context, id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, err
	}
	return res.DeletedCount == 1, nil
}
