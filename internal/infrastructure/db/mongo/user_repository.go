package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ridmikaw/backend-macro-labs-news-app/internal/core/domain"
	"github.com/ridmikaw/backend-macro-labs-news-app/internal/core/ports"
)

const collectionUsers = "users"

// UserRepository implements ports.UserRepository using MongoDB.
type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(collectionUsers)}
}

type userDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Username  string             `bson:"username"`
	Email     string             `bson:"email"`
	Password  string             `bson:"password,omitempty"`
	Role      string             `bson:"role"`
	IsActive  bool               `bson:"isActive"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d *userDocument) toDomain() *domain.User {
	return &domain.User{
		ID:           d.ID.Hex(),
		Username:     d.Username,
		Email:        d.Email,
		PasswordHash: d.Password,
		Role:         domain.Role(d.Role),
		IsActive:     d.IsActive,
		CreatedAt:    d.CreatedAt.UTC(),
		UpdatedAt:    d.UpdatedAt.UTC(),
	}
}

var withoutPassword = bson.M{"password": 0}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := userDocument{
		ID:        primitive.NewObjectID(),
		Username:  user.Username,
		Email:     user.Email,
		Password:  user.PasswordHash,
		Role:      string(user.Role),
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt.UTC(),
		UpdatedAt: user.UpdatedAt.UTC(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, duplicateUserError(err)
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return doc.toDomain(), nil
}

const (
	emailIndex    = "email_unique"
	usernameIndex = "username_unique"
)

// duplicateUserError maps a unique index violation to the field it hit. The
// index is read from the server's key pattern, or failing that from the
// "index: <name>" part of the message; never from the duplicated value.
func duplicateUserError(err error) error {
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			switch duplicateField(e) {
			case "email":
				return domain.ErrEmailTaken
			case "username":
				return domain.ErrUsernameTaken
			}
		}
	}
	return fmt.Errorf("insert user: %w", domain.ErrConflict)
}

func duplicateField(e mongo.WriteError) string {
	if len(e.Raw) > 0 {
		if kp, err := e.Raw.LookupErr("keyPattern"); err == nil {
			if doc, ok := kp.DocumentOK(); ok {
				for _, field := range []string{"email", "username"} {
					if _, err := doc.LookupErr(field); err == nil {
						return field
					}
				}
			}
		}
	}

	_, rest, found := strings.Cut(e.Message, " index: ")
	if !found {
		return ""
	}
	name, _, _ := strings.Cut(rest, " ")
	switch name {
	case emailIndex:
		return "email"
	case usernameIndex:
		return "username"
	}
	return ""
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc userDocument
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetProjection(withoutPassword)
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer cur.Close(ctx)

	users := make([]*domain.User, 0)
	for cur.Next(ctx) {
		var doc userDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode user: %w", err)
		}
		users = append(users, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// UpdateRole sets the role only while the stored user still matches guard.
func (r *UserRepository) UpdateRole(ctx context.Context, guard ports.UserGuard, role domain.Role) (*domain.User, error) {
	return r.guardedSet(ctx, guard, bson.M{"role": string(role)})
}

// SetActive sets the active flag only while the stored user still matches guard.
func (r *UserRepository) SetActive(ctx context.Context, guard ports.UserGuard, active bool) (*domain.User, error) {
	return r.guardedSet(ctx, guard, bson.M{"isActive": active})
}

func (r *UserRepository) guardedSet(ctx context.Context, guard ports.UserGuard, set bson.M) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(guard.ID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set["updatedAt"] = time.Now().UTC()
	filter := bson.M{"_id": oid, "role": string(guard.Role), "isActive": guard.IsActive}
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(withoutPassword)

	var doc userDocument
	err = r.col.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&doc)
	if err == nil {
		return doc.toDomain(), nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("update user: %w", err)
	}

	// No match: either the user is gone or it changed since it was read.
	n, err := r.col.CountDocuments(ctx, bson.M{"_id": oid})
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	if n == 0 {
		return nil, domain.ErrUserNotFound
	}
	return nil, domain.ErrStaleUser
}

type roleStatusRow struct {
	ID struct {
		Role     string `bson:"role"`
		IsActive bool   `bson:"isActive"`
	} `bson:"_id"`
	Count int64 `bson:"count"`
}

// CountByRoleAndStatus groups the collection by (role, isActive) in one pass.
func (r *UserRepository) CountByRoleAndStatus(ctx context.Context) ([]domain.RoleStatusCount, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{{Key: "role", Value: "$role"}, {Key: "isActive", Value: "$isActive"}}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate users: %w", err)
	}
	defer cur.Close(ctx)

	var rows []roleStatusRow
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode user stats: %w", err)
	}
	out := make([]domain.RoleStatusCount, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.RoleStatusCount{
			Role:     domain.Role(row.ID.Role),
			IsActive: row.ID.IsActive,
			Count:    row.Count,
		})
	}
	return out, nil
}

// EnsureIndexes creates the unique indexes on the users collection.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetName(emailIndex)},
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true).SetName(usernameIndex)},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
