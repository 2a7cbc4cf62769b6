package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskform/pkg/domain/model"
	"github.com/secmon-lab/riskform/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type questionDocument struct {
	Text     string `firestore:"text"`
	Response string `firestore:"response"`
	Weight   int    `firestore:"weight"`
}

type assessmentDocument struct {
	ID        string             `firestore:"id"`
	Title     string             `firestore:"title"`
	Validator string             `firestore:"validator"`
	Questions []questionDocument `firestore:"questions"`
	CreatedAt time.Time          `firestore:"created_at"`
}

func toAssessmentDocument(a *model.Assessment) *assessmentDocument {
	doc := &assessmentDocument{
		ID:        a.ID.String(),
		Title:     a.Title,
		Validator: a.Validator,
		Questions: make([]questionDocument, len(a.Questions)),
		CreatedAt: a.CreatedAt,
	}
	for i, q := range a.Questions {
		doc.Questions[i] = questionDocument{
			Text:     q.Text,
			Response: q.Response.String(),
			Weight:   q.Weight,
		}
	}
	return doc
}

func (d *assessmentDocument) toModel() *model.Assessment {
	a := &model.Assessment{
		ID:        model.AssessmentID(d.ID),
		Title:     d.Title,
		Validator: d.Validator,
		Questions: make([]model.Question, len(d.Questions)),
		CreatedAt: d.CreatedAt,
	}
	for i, q := range d.Questions {
		a.Questions[i] = model.Question{
			Text:     q.Text,
			Response: types.Response(q.Response),
			Weight:   q.Weight,
		}
	}
	return a
}

type assessmentRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newAssessmentRepository(client *firestore.Client) *assessmentRepository {
	return &assessmentRepository{
		client:           client,
		collectionPrefix: "",
	}
}

func (r *assessmentRepository) collection() *firestore.CollectionRef {
	if r.collectionPrefix != "" {
		return r.client.Collection(r.collectionPrefix + "_" + AssessmentsCollection)
	}
	return r.client.Collection(AssessmentsCollection)
}

func (r *assessmentRepository) Create(ctx context.Context, assessment *model.Assessment) (*model.Assessment, error) {
	doc := toAssessmentDocument(assessment)
	if doc.ID == "" {
		doc.ID = model.NewAssessmentID().String()
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}

	if _, err := r.collection().Doc(doc.ID).Create(ctx, doc); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return nil, goerr.Wrap(err, "assessment already exists", goerr.V("id", doc.ID))
		}
		return nil, goerr.Wrap(err, "failed to create assessment", goerr.V("id", doc.ID))
	}

	return doc.toModel(), nil
}

func (r *assessmentRepository) Get(ctx context.Context, id model.AssessmentID) (*model.Assessment, error) {
	snap, err := r.collection().Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "assessment not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get assessment", goerr.V("id", id))
	}

	var doc assessmentDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal assessment", goerr.V("id", id))
	}

	return doc.toModel(), nil
}

func (r *assessmentRepository) List(ctx context.Context) ([]*model.Assessment, error) {
	query := r.collection().OrderBy("created_at", firestore.Desc)
	return r.collect(query.Documents(ctx))
}

// ListByValidator requires the (validator ASC, created_at DESC) composite index
// created by the migrate command.
func (r *assessmentRepository) ListByValidator(ctx context.Context, validator string) ([]*model.Assessment, error) {
	query := r.collection().
		Where("validator", "==", validator).
		OrderBy("created_at", firestore.Desc)
	return r.collect(query.Documents(ctx))
}

func (r *assessmentRepository) collect(iter *firestore.DocumentIterator) ([]*model.Assessment, error) {
	defer iter.Stop()

	assessments := []*model.Assessment{}
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate assessments")
		}

		var doc assessmentDocument
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal assessment", goerr.V("doc_id", snap.Ref.ID))
		}
		assessments = append(assessments, doc.toModel())
	}

	return assessments, nil
}

func (r *assessmentRepository) Delete(ctx context.Context, id model.AssessmentID) error {
	docRef := r.collection().Doc(id.String())

	if _, err := docRef.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "assessment not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to get assessment", goerr.V("id", id))
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete assessment", goerr.V("id", id))
	}

	return nil
}
