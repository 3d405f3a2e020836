package graph

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/graph-gophers/graphql-go"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Tomlord1122/tasklist-backend/internal/auth"
	"github.com/Tomlord1122/tasklist-backend/internal/domain"
	"github.com/Tomlord1122/tasklist-backend/internal/store"
)

// Fixed caller-facing messages. Unknown email and wrong password both
// collapse to the same credentials message.
var (
	ErrAuthentication     = errors.New("Authentication Error. Please sign in.")
	ErrInvalidCredentials = errors.New("Invalid credentials!")
)

// Resolver is the root resolver: one method per query and mutation. Each
// mutation, and the task-list queries, checks the session before touching
// the store; course queries are public.
type Resolver struct {
	store store.Store
	auth  *auth.Service
}

func NewResolver(st store.Store, au *auth.Service) *Resolver {
	return &Resolver{store: st, auth: au}
}

// requireUser gates an operation on a non-anonymous session.
func requireUser(ctx context.Context) (*domain.User, error) {
	user := UserFromContext(ctx)
	if user == nil {
		return nil, ErrAuthentication
	}
	return user, nil
}

func parseID(id graphql.ID) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(string(id))
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("invalid id %q: %w", id, err)
	}
	return oid, nil
}

// ---- Queries ----

func (r *Resolver) MyTaskLists(ctx context.Context) ([]*TaskListResolver, error) {
	user, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	var lists []domain.TaskList
	if err := r.store.FindMany(ctx, store.CollectionTaskList, bson.M{"userIds": user.ID}, &lists); err != nil {
		return nil, err
	}

	resolvers := make([]*TaskListResolver, 0, len(lists))
	for i := range lists {
		resolvers = append(resolvers, &TaskListResolver{r: r, tl: &lists[i]})
	}
	return resolvers, nil
}

func (r *Resolver) GetTaskList(ctx context.Context, args struct{ ID graphql.ID }) (*TaskListResolver, error) {
	if _, err := requireUser(ctx); err != nil {
		return nil, err
	}
	oid, err := parseID(args.ID)
	if err != nil {
		return nil, err
	}
	return r.fetchTaskList(ctx, oid)
}

func (r *Resolver) GetCourses(ctx context.Context) ([]*CourseResolver, error) {
	return r.findCourses(ctx, bson.M{})
}

func (r *Resolver) GetCoursesByCode(ctx context.Context, args struct{ CourseCode string }) ([]*CourseResolver, error) {
	// Unanchored pattern: any course whose code contains the uppercased
	// input matches.
	code := strings.ToUpper(args.CourseCode)
	return r.findCourses(ctx, bson.M{"courseCode": primitive.Regex{Pattern: code}})
}

func (r *Resolver) GetCoursesByDivisionCodes(ctx context.Context, args struct{ DivisionCodes *[]string }) ([]*CourseResolver, error) {
	codes := []string{}
	if args.DivisionCodes != nil {
		codes = *args.DivisionCodes
	}
	return r.findCourses(ctx, bson.M{"divisionCode": bson.M{"$in": codes}})
}

// ---- Mutations ----

type SignUpInput struct {
	Email    string
	Password string
	Name     string
	Avatar   *string
}

type SignInInput struct {
	Email    string
	Password string
}

func (r *Resolver) SignUp(ctx context.Context, args struct{ Input SignUpInput }) (*AuthUserResolver, error) {
	hash, err := r.auth.HashPassword(args.Input.Password)
	if err != nil {
		return nil, err
	}

	id, err := r.store.Insert(ctx, store.CollectionUsers, domain.User{
		Name:     args.Input.Name,
		Email:    args.Input.Email,
		Password: hash,
		Avatar:   args.Input.Avatar,
	})
	if err != nil {
		return nil, err
	}

	var user domain.User
	if err := r.store.FindOne(ctx, store.CollectionUsers, bson.M{"_id": id}, &user); err != nil {
		return nil, err
	}
	return r.authPayload(&user)
}

func (r *Resolver) SignIn(ctx context.Context, args struct{ Input SignInInput }) (*AuthUserResolver, error) {
	var user domain.User
	err := r.store.FindOne(ctx, store.CollectionUsers, bson.M{"email": args.Input.Email}, &user)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !r.auth.CheckPassword(args.Input.Password, user.Password) {
		return nil, ErrInvalidCredentials
	}
	return r.authPayload(&user)
}

func (r *Resolver) CreateTaskList(ctx context.Context, args struct{ Title string }) (*TaskListResolver, error) {
	user, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	id, err := r.store.Insert(ctx, store.CollectionTaskList, domain.TaskList{
		Title:     args.Title,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		UserIDs:   []primitive.ObjectID{user.ID},
	})
	if err != nil {
		return nil, err
	}
	return r.fetchTaskList(ctx, id)
}

func (r *Resolver) UpdateTaskList(ctx context.Context, args struct {
	ID    graphql.ID
	Title string
}) (*TaskListResolver, error) {
	if _, err := requireUser(ctx); err != nil {
		return nil, err
	}
	oid, err := parseID(args.ID)
	if err != nil {
		return nil, err
	}

	if err := r.store.UpdateFields(ctx, store.CollectionTaskList, oid, bson.M{"title": args.Title}); err != nil {
		return nil, err
	}
	return r.fetchTaskList(ctx, oid)
}

func (r *Resolver) DeleteTaskList(ctx context.Context, args struct{ ID graphql.ID }) (*bool, error) {
	if _, err := requireUser(ctx); err != nil {
		return nil, err
	}
	oid, err := parseID(args.ID)
	if err != nil {
		return nil, err
	}

	// Hard delete, no cascade: the list's to-dos stay behind.
	if err := r.store.Delete(ctx, store.CollectionTaskList, oid); err != nil {
		return nil, err
	}
	deleted := true
	return &deleted, nil
}

func (r *Resolver) AddUserToTaskList(ctx context.Context, args struct {
	TaskListID graphql.ID
	UserID     graphql.ID
}) (*TaskListResolver, error) {
	if _, err := requireUser(ctx); err != nil {
		return nil, err
	}
	listID, err := parseID(args.TaskListID)
	if err != nil {
		return nil, err
	}
	userID, err := parseID(args.UserID)
	if err != nil {
		return nil, err
	}

	var list domain.TaskList
	err = r.store.FindOne(ctx, store.CollectionTaskList, bson.M{"_id": listID}, &list)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	for _, id := range list.UserIDs {
		if id == userID {
			return &TaskListResolver{r: r, tl: &list}, nil
		}
	}

	if err := r.store.PushToArrayUnique(ctx, store.CollectionTaskList, listID, "userIds", userID); err != nil {
		return nil, err
	}
	list.UserIDs = append(list.UserIDs, userID)
	return &TaskListResolver{r: r, tl: &list}, nil
}

func (r *Resolver) CreateToDo(ctx context.Context, args struct {
	Content    string
	TaskListID graphql.ID
}) (*ToDoResolver, error) {
	if _, err := requireUser(ctx); err != nil {
		return nil, err
	}
	listID, err := parseID(args.TaskListID)
	if err != nil {
		return nil, err
	}

	id, err := r.store.Insert(ctx, store.CollectionToDo, domain.ToDo{
		Content:     args.Content,
		IsCompleted: false,
		TaskListID:  listID,
	})
	if err != nil {
		return nil, err
	}
	return r.fetchToDo(ctx, id)
}

func (r *Resolver) UpdateToDo(ctx context.Context, args struct {
	ID          graphql.ID
	Content     *string
	IsCompleted *bool
}) (*ToDoResolver, error) {
	if _, err := requireUser(ctx); err != nil {
		return nil, err
	}
	oid, err := parseID(args.ID)
	if err != nil {
		return nil, err
	}

	// Partial update: only the provided fields are set.
	fields := bson.M{}
	if args.Content != nil {
		fields["content"] = *args.Content
	}
	if args.IsCompleted != nil {
		fields["isCompleted"] = *args.IsCompleted
	}
	if len(fields) > 0 {
		if err := r.store.UpdateFields(ctx, store.CollectionToDo, oid, fields); err != nil {
			return nil, err
		}
	}
	return r.fetchToDo(ctx, oid)
}

func (r *Resolver) DeleteToDo(ctx context.Context, args struct{ ID graphql.ID }) (*bool, error) {
	if _, err := requireUser(ctx); err != nil {
		return nil, err
	}
	oid, err := parseID(args.ID)
	if err != nil {
		return nil, err
	}

	if err := r.store.Delete(ctx, store.CollectionToDo, oid); err != nil {
		return nil, err
	}
	deleted := true
	return &deleted, nil
}

// ---- helpers ----

func (r *Resolver) authPayload(user *domain.User) (*AuthUserResolver, error) {
	token, err := r.auth.IssueToken(user.ID.Hex())
	if err != nil {
		return nil, err
	}
	return &AuthUserResolver{user: user, token: token}, nil
}

// fetchTaskList maps a lookup miss to a null result rather than an error.
func (r *Resolver) fetchTaskList(ctx context.Context, id primitive.ObjectID) (*TaskListResolver, error) {
	var list domain.TaskList
	err := r.store.FindOne(ctx, store.CollectionTaskList, bson.M{"_id": id}, &list)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &TaskListResolver{r: r, tl: &list}, nil
}

func (r *Resolver) fetchToDo(ctx context.Context, id primitive.ObjectID) (*ToDoResolver, error) {
	var todo domain.ToDo
	err := r.store.FindOne(ctx, store.CollectionToDo, bson.M{"_id": id}, &todo)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ToDoResolver{r: r, todo: &todo}, nil
}

func (r *Resolver) findCourses(ctx context.Context, filter bson.M) ([]*CourseResolver, error) {
	var courses []domain.Course
	if err := r.store.FindMany(ctx, store.CollectionCourses, filter, &courses); err != nil {
		return nil, err
	}
	resolvers := make([]*CourseResolver, 0, len(courses))
	for i := range courses {
		resolvers = append(resolvers, &CourseResolver{c: &courses[i]})
	}
	return resolvers, nil
}
