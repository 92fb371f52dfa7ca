package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"officehub/internal/authz"
	"officehub/internal/models"
	"officehub/internal/repositories"
)

// fakeNotify — копит уведомления вместо БД/телеграма.
type fakeNotify struct {
	NotificationService

	sent []fakeNotification
}

type fakeNotification struct {
	UserID int
	Type   string
	Title  string
	RefID  int64
}

func (n *fakeNotify) Notify(userID int, typ, title, _ string, _ string, refID int64) error {
	n.sent = append(n.sent, fakeNotification{UserID: userID, Type: typ, Title: title, RefID: refID})
	return nil
}

func (n *fakeNotify) NotifyMany(userIDs []int, typ, title, msg, refType string, refID int64) error {
	for _, id := range userIDs {
		_ = n.Notify(id, typ, title, msg, refType, refID)
	}
	return nil
}

type fakeTaskRepo struct {
	repositories.TaskRepository

	tasks  map[int64]*models.Task
	nextID int64

	lastFilter models.TaskFilter
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: make(map[int64]*models.Task), nextID: 1}
}

func (r *fakeTaskRepo) Create(task *models.Task) error {
	task.ID = r.nextID
	r.nextID++
	cp := *task
	r.tasks[task.ID] = &cp
	return nil
}

func (r *fakeTaskRepo) GetByID(id int64) (*models.Task, error) {
	t, ok := r.tasks[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTaskRepo) Update(task *models.Task) error {
	cp := *task
	r.tasks[task.ID] = &cp
	return nil
}

func (r *fakeTaskRepo) Delete(id int64) error {
	delete(r.tasks, id)
	return nil
}

func (r *fakeTaskRepo) List(f models.TaskFilter) ([]*models.Task, error) {
	r.lastFilter = f
	return nil, nil
}

func TestTaskCreateDefaults(t *testing.T) {
	repo := newFakeTaskRepo()
	notify := &fakeNotify{}
	svc := NewTaskService(repo, notify)

	task := &models.Task{Title: "  Подготовить отчёт ", AssignedTo: 7}
	require.NoError(t, svc.Create(3, task))

	assert.Equal(t, "Подготовить отчёт", task.Title)
	assert.Equal(t, 3, task.AssignedBy)
	assert.Equal(t, models.TaskStatusPending, task.Status)
	assert.Equal(t, "medium", task.Priority)
	assert.NotNil(t, task.Comments)

	// исполнитель получает уведомление о новой задаче
	require.Len(t, notify.sent, 1)
	assert.Equal(t, 7, notify.sent[0].UserID)
	assert.Equal(t, models.NotificationTypeTask, notify.sent[0].Type)
}

func TestTaskCreateValidation(t *testing.T) {
	svc := NewTaskService(newFakeTaskRepo(), &fakeNotify{})

	err := svc.Create(3, &models.Task{AssignedTo: 7})
	require.Error(t, err)

	err = svc.Create(3, &models.Task{Title: "Задача"})
	require.Error(t, err)
}

func TestTaskGetByIDRestrictsIntern(t *testing.T) {
	repo := newFakeTaskRepo()
	svc := NewTaskService(repo, &fakeNotify{})
	require.NoError(t, svc.Create(3, &models.Task{Title: "Задача", AssignedTo: 7}))

	_, err := svc.GetByID(1, 8, authz.RoleIntern)
	assert.ErrorIs(t, err, ErrForbidden)

	task, err := svc.GetByID(1, 7, authz.RoleIntern)
	require.NoError(t, err)
	assert.Equal(t, int64(1), task.ID)

	_, err = svc.GetByID(42, 3, authz.RoleAdmin)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTaskUpdateInternStatusOnly(t *testing.T) {
	repo := newFakeTaskRepo()
	svc := NewTaskService(repo, &fakeNotify{})
	require.NoError(t, svc.Create(3, &models.Task{Title: "Задача", AssignedTo: 7}))

	// стажёр пытается переименовать задачу — меняется только статус
	upd := &models.Task{ID: 1, Title: "Другое имя", Status: models.TaskStatusInProgress}
	require.NoError(t, svc.Update(7, authz.RoleIntern, upd))

	assert.Equal(t, "Задача", upd.Title)
	assert.Equal(t, models.TaskStatusInProgress, upd.Status)
	require.NotNil(t, upd.StartDate) // старт проставлен автоматически

	stored, _ := repo.GetByID(1)
	assert.Equal(t, "Задача", stored.Title)
}

func TestTaskUpdateBadTransition(t *testing.T) {
	repo := newFakeTaskRepo()
	svc := NewTaskService(repo, &fakeNotify{})
	require.NoError(t, svc.Create(3, &models.Task{Title: "Задача", AssignedTo: 7}))

	// pending -> completed минуя in-progress запрещён
	err := svc.Update(7, authz.RoleIntern, &models.Task{ID: 1, Status: models.TaskStatusCompleted})
	assert.ErrorIs(t, err, ErrBadStatusTransition)

	// завершённая задача финальна
	require.NoError(t, svc.Update(7, authz.RoleIntern, &models.Task{ID: 1, Status: models.TaskStatusInProgress}))
	require.NoError(t, svc.Update(7, authz.RoleIntern, &models.Task{ID: 1, Status: models.TaskStatusCompleted}))
	err = svc.Update(7, authz.RoleIntern, &models.Task{ID: 1, Status: models.TaskStatusPending})
	assert.ErrorIs(t, err, ErrBadStatusTransition)
}

func TestTaskUpdateCompletionNotifiesAssigner(t *testing.T) {
	repo := newFakeTaskRepo()
	notify := &fakeNotify{}
	svc := NewTaskService(repo, notify)
	require.NoError(t, svc.Create(3, &models.Task{Title: "Задача", AssignedTo: 7}))
	notify.sent = nil

	require.NoError(t, svc.Update(7, authz.RoleIntern, &models.Task{ID: 1, Status: models.TaskStatusInProgress}))
	require.NoError(t, svc.Update(7, authz.RoleIntern, &models.Task{ID: 1, Status: models.TaskStatusCompleted}))

	require.Len(t, notify.sent, 1)
	assert.Equal(t, 3, notify.sent[0].UserID) // автор задачи
	assert.Equal(t, "Task completed", notify.sent[0].Title)

	stored, _ := repo.GetByID(1)
	assert.NotNil(t, stored.CompletedDate)
}

func TestTaskUpdateForeignTaskForbidden(t *testing.T) {
	repo := newFakeTaskRepo()
	svc := NewTaskService(repo, &fakeNotify{})
	require.NoError(t, svc.Create(3, &models.Task{Title: "Задача", AssignedTo: 7}))

	err := svc.Update(8, authz.RoleIntern, &models.Task{ID: 1, Status: models.TaskStatusInProgress})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestTaskListScopesIntern(t *testing.T) {
	repo := newFakeTaskRepo()
	svc := NewTaskService(repo, &fakeNotify{})

	_, err := svc.List(models.TaskFilter{Status: models.TaskStatusPending}, 7, authz.RoleIntern)
	require.NoError(t, err)
	assert.Equal(t, 7, repo.lastFilter.AssignedTo)

	_, err = svc.List(models.TaskFilter{}, 3, authz.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, 0, repo.lastFilter.AssignedTo)
}

func TestTaskAddComment(t *testing.T) {
	repo := newFakeTaskRepo()
	svc := NewTaskService(repo, &fakeNotify{})
	require.NoError(t, svc.Create(3, &models.Task{Title: "Задача", AssignedTo: 7}))

	task, err := svc.AddComment(1, 7, authz.RoleIntern, "Айгерим", "  готово наполовину ")
	require.NoError(t, err)
	require.Len(t, task.Comments, 1)
	assert.Equal(t, "готово наполовину", task.Comments[0].Text)
	assert.Equal(t, "Айгерим", task.Comments[0].AuthorName)

	_, err = svc.AddComment(1, 7, authz.RoleIntern, "Айгерим", "   ")
	require.Error(t, err)

	_, err = svc.AddComment(1, 8, authz.RoleIntern, "Кто-то", "чужая задача")
	assert.ErrorIs(t, err, ErrForbidden)
}
