package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ridmikaw/backend-macro-labs-news-app/internal/core/domain"
	"github.com/ridmikaw/backend-macro-labs-news-app/internal/core/ports"
)

const collectionArticles = "articles"

// ArticleRepository implements ports.ArticleRepository using MongoDB. Author
// projections are resolved against the users collection.
type ArticleRepository struct {
	col   *mongo.Collection
	users *mongo.Collection
}

func NewArticleRepository(db *mongo.Database) *ArticleRepository {
	return &ArticleRepository{
		col:   db.Collection(collectionArticles),
		users: db.Collection(collectionUsers),
	}
}

type articleDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Content     string             `bson:"content"`
	Summary     string             `bson:"summary"`
	Category    string             `bson:"category"`
	Author      primitive.ObjectID `bson:"author"`
	Views       int64              `bson:"views"`
	Likes       int64              `bson:"likes"`
	IsPublished bool               `bson:"isPublished"`
	ImageURL    string             `bson:"imageUrl,omitempty"`
	Tags        []string           `bson:"tags"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func (d *articleDocument) toDomain() *domain.Article {
	tags := d.Tags
	if tags == nil {
		tags = []string{}
	}
	return &domain.Article{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Content:     d.Content,
		Summary:     d.Summary,
		Category:    domain.Category(d.Category),
		AuthorID:    d.Author.Hex(),
		Views:       d.Views,
		Likes:       d.Likes,
		IsPublished: d.IsPublished,
		ImageURL:    d.ImageURL,
		Tags:        tags,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}

func (r *ArticleRepository) Create(ctx context.Context, a *domain.Article) (*domain.Article, error) {
	author, err := primitive.ObjectIDFromHex(a.AuthorID)
	if err != nil {
		return nil, domain.Validationf("invalid author id %q", a.AuthorID)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := articleDocument{
		ID:          primitive.NewObjectID(),
		Title:       a.Title,
		Content:     a.Content,
		Summary:     a.Summary,
		Category:    string(a.Category),
		Author:      author,
		IsPublished: a.IsPublished,
		ImageURL:    a.ImageURL,
		Tags:        a.Tags,
		CreatedAt:   a.CreatedAt.UTC(),
		UpdatedAt:   a.UpdatedAt.UTC(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert article: %w", err)
	}
	return r.withAuthor(ctx, &doc)
}

func (r *ArticleRepository) FindByID(ctx context.Context, id string) (*domain.Article, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrArticleNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc articleDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrArticleNotFound
		}
		return nil, fmt.Errorf("find article: %w", err)
	}
	return r.withAuthor(ctx, &doc)
}

func sortFor(s domain.ArticleSort) bson.D {
	switch s {
	case domain.SortPopularity:
		return bson.D{{Key: "views", Value: -1}, {Key: "_id", Value: -1}}
	case domain.SortLikes:
		return bson.D{{Key: "likes", Value: -1}, {Key: "_id", Value: -1}}
	default:
		return bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}
	}
}

func (r *ArticleRepository) ListPublished(ctx context.Context, f ports.ArticleFilter) ([]*domain.Article, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"isPublished": true}
	if f.Category != "" {
		filter["category"] = string(f.Category)
	}
	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(sortFor(f.Sort)))
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	defer cur.Close(ctx)

	var docs []articleDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode articles: %w", err)
	}

	authorIDs := make([]primitive.ObjectID, 0, len(docs))
	for _, d := range docs {
		authorIDs = append(authorIDs, d.Author)
	}
	authors, err := r.authors(ctx, authorIDs)
	if err != nil {
		return nil, err
	}

	out := make([]*domain.Article, 0, len(docs))
	for i := range docs {
		a := docs[i].toDomain()
		a.Author = authors[docs[i].Author]
		out = append(out, a)
	}
	return out, nil
}

func (r *ArticleRepository) IncrementViews(ctx context.Context, id string) (*domain.Article, error) {
	return r.increment(ctx, id, "views")
}

func (r *ArticleRepository) IncrementLikes(ctx context.Context, id string) (*domain.Article, error) {
	return r.increment(ctx, id, "likes")
}

// increment bumps one counter with $inc and returns the post-update document.
func (r *ArticleRepository) increment(ctx context.Context, id, field string) (*domain.Article, error) {
	update := bson.M{"$inc": bson.M{field: 1}}
	return r.findAndUpdate(ctx, id, update)
}

func (r *ArticleRepository) Update(ctx context.Context, id string, p domain.ArticlePatch) (*domain.Article, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if p.Title != nil {
		set["title"] = *p.Title
	}
	if p.Content != nil {
		set["content"] = *p.Content
	}
	if p.Summary != nil {
		set["summary"] = *p.Summary
	}
	if p.Category != nil {
		set["category"] = string(*p.Category)
	}
	if p.ImageURL != nil {
		set["imageUrl"] = *p.ImageURL
	}
	if p.Tags != nil {
		tags := *p.Tags
		if tags == nil {
			tags = []string{}
		}
		set["tags"] = tags
	}
	if p.IsPublished != nil {
		set["isPublished"] = *p.IsPublished
	}
	return r.findAndUpdate(ctx, id, bson.M{"$set": set})
}

func (r *ArticleRepository) findAndUpdate(ctx context.Context, id string, update bson.M) (*domain.Article, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrArticleNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc articleDocument
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrArticleNotFound
		}
		return nil, fmt.Errorf("update article: %w", err)
	}
	return r.withAuthor(ctx, &doc)
}

func (r *ArticleRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrArticleNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete article: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrArticleNotFound
	}
	return nil
}

func (r *ArticleRepository) withAuthor(ctx context.Context, doc *articleDocument) (*domain.Article, error) {
	authors, err := r.authors(ctx, []primitive.ObjectID{doc.Author})
	if err != nil {
		return nil, err
	}
	a := doc.toDomain()
	a.Author = authors[doc.Author]
	return a, nil
}

// authors loads the public projection of the given users in one query.
// Deleted authors are simply absent from the result.
func (r *ArticleRepository) authors(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*domain.Author, error) {
	out := make(map[primitive.ObjectID]*domain.Author, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	opts := options.Find().SetProjection(bson.M{"username": 1})
	cur, err := r.users.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, fmt.Errorf("load authors: %w", err)
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var u struct {
			ID       primitive.ObjectID `bson:"_id"`
			Username string             `bson:"username"`
		}
		if err := cur.Decode(&u); err != nil {
			return nil, fmt.Errorf("decode author: %w", err)
		}
		out[u.ID] = &domain.Author{ID: u.ID.Hex(), Username: u.Username}
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("load authors: %w", err)
	}
	return out, nil
}

// EnsureIndexes creates the listing indexes on the articles collection.
func (r *ArticleRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "isPublished", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "isPublished", Value: 1}, {Key: "views", Value: -1}}},
		{Keys: bson.D{{Key: "isPublished", Value: 1}, {Key: "likes", Value: -1}}},
		{Keys: bson.D{{Key: "category", Value: 1}, {Key: "isPublished", Value: 1}}},
		{Keys: bson.D{{Key: "author", Value: 1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
