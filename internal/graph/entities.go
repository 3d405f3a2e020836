package graph

import (
	"context"
	"errors"

	"github.com/graph-gophers/graphql-go"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/sync/errgroup"

	"github.com/Tomlord1122/tasklist-backend/internal/domain"
	"github.com/Tomlord1122/tasklist-backend/internal/store"
)

// Entity resolvers. Scalar fields come straight off the document;
// relationship and computed fields are resolved lazily, once per field
// request and independently per item.

type UserResolver struct {
	u *domain.User
}

func (r *UserResolver) ID() graphql.ID { return graphql.ID(r.u.ID.Hex()) }
func (r *UserResolver) Name() string { return r.u.Name }
func (r *UserResolver) Email() string { return r.u.Email }
func (r *UserResolver) Avatar() *string { return r.u.Avatar }

type AuthUserResolver struct {
	user  *domain.User
	token string
}

func (r *AuthUserResolver) User() *UserResolver { return &UserResolver{u: r.user} }
func (r *AuthUserResolver) Token() string { return r.token }

type CourseResolver struct {
	c *domain.Course
}

func (r *CourseResolver) ID() graphql.ID { return graphql.ID(r.c.ID.Hex()) }
func (r *CourseResolver) DivisionCode() string { return r.c.DivisionCode }
func (r *CourseResolver) CourseCode() string { return r.c.CourseCode }
func (r *CourseResolver) CourseTitle() string { return r.c.CourseTitle }
func (r *CourseResolver) Credits() float64 { return r.c.Credits }
func (r *CourseResolver) CreditTypeCode() string { return r.c.CreditTypeCode }

type TaskListResolver struct {
	r  *Resolver
	tl *domain.TaskList
}

func (t *TaskListResolver) ID() graphql.ID { return graphql.ID(t.tl.ID.Hex()) }
func (t *TaskListResolver) Title() string { return t.tl.Title }
func (t *TaskListResolver) CreatedAt() string { return t.tl.CreatedAt }

// Progress is the derived completion percentage: 0 for a list with no
// to-dos, otherwise 100 × completed / total, both counts from one scan.
func (t *TaskListResolver) Progress(ctx context.Context) (float64, error) {
	var todos []domain.ToDo
	if err := t.r.store.FindMany(ctx, store.CollectionToDo, bson.M{"taskListId": t.tl.ID}, &todos); err != nil {
		return 0, err
	}
	if len(todos) == 0 {
		return 0, nil
	}
	completed := 0
	for _, todo := range todos {
		if todo.IsCompleted {
			completed++
		}
	}
	return 100 * float64(completed) / float64(len(todos)), nil
}

// Users resolves one point lookup per member id, issued concurrently and
// assembled positionally. A lookup miss leaves a null in that position.
func (t *TaskListResolver) Users(ctx context.Context) ([]*UserResolver, error) {
	resolvers := make([]*UserResolver, len(t.tl.UserIDs))
	g, gctx := errgroup.WithContext(ctx)
	for i, userID := range t.tl.UserIDs {
		g.Go(func() error {
			var user domain.User
			err := t.r.store.FindOne(gctx, store.CollectionUsers, bson.M{"_id": userID}, &user)
			if errors.Is(err, store.ErrNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			resolvers[i] = &UserResolver{u: &user}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return resolvers, nil
}

func (t *TaskListResolver) Todos(ctx context.Context) ([]*ToDoResolver, error) {
	var todos []domain.ToDo
	if err := t.r.store.FindMany(ctx, store.CollectionToDo, bson.M{"taskListId": t.tl.ID}, &todos); err != nil {
		return nil, err
	}
	resolvers := make([]*ToDoResolver, 0, len(todos))
	for i := range todos {
		resolvers = append(resolvers, &ToDoResolver{r: t.r, todo: &todos[i]})
	}
	return resolvers, nil
}

type ToDoResolver struct {
	r    *Resolver
	todo *domain.ToDo
}

func (t *ToDoResolver) ID() graphql.ID { return graphql.ID(t.todo.ID.Hex()) }
func (t *ToDoResolver) Content() string { return t.todo.Content }
func (t *ToDoResolver) IsCompleted() bool { return t.todo.IsCompleted }

// TaskList resolves the owning list. Deletes do not cascade, so a to-do can
// reference a list that no longer exists; that resolves to null.
func (t *ToDoResolver) TaskList(ctx context.Context) (*TaskListResolver, error) {
	return t.r.fetchTaskList(ctx, t.todo.TaskListID)
}
