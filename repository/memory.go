package repository

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"petnotes/model"
)

var (
	_ UserStore   = (*MemoryStores)(nil)
	_ FolderStore = (*MemoryStores)(nil)
	_ NoteStore   = (*MemoryStores)(nil)
	_ TaskStore   = (*MemoryStores)(nil)
	_ PetStore    = (*MemoryStores)(nil)
)

// MemoryStores keeps the whole graph in process memory behind one lock.
// It mirrors the Mongo adapters' semantics, including the unique keys and
// the version check on pet progress, so services can run against either
// backend unchanged.
type MemoryStores struct {
	mu      sync.RWMutex
	users   map[string]*model.User
	folders map[string]*model.Folder
	notes   map[string]*model.Note
	tasks   map[string]*model.Task
	pets    map[string]*model.Pet
}

func NewMemoryStores() *MemoryStores {
	return &MemoryStores{
		users:   make(map[string]*model.User),
		folders: make(map[string]*model.Folder),
		notes:   make(map[string]*model.Note),
		tasks:   make(map[string]*model.Task),
		pets:    make(map[string]*model.Pet),
	}
}

// Bundle exposes the store as one Stores value for wiring.
func (m *MemoryStores) Bundle() Stores {
	return Stores{Users: m, Folders: m, Notes: m, Tasks: m, Pets: m}
}

// users

func (m *MemoryStores) AddUser(ctx context.Context, user *model.User) error {
	if user.Username == "" || user.Email == "" {
		return errors.New("username and email required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[user.UserID]; ok {
		return ErrConflict
	}
	for _, existing := range m.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return ErrConflict
		}
	}

	user.CreatedAt = time.Now()
	m.users[user.UserID] = cloneUser(user)
	return nil
}

func (m *MemoryStores) FindUser(ctx context.Context, userID string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.users[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneUser(user), nil
}

func (m *MemoryStores) DeleteUserByID(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[userID]; !ok {
		return ErrNotFound
	}
	delete(m.users, userID)
	return nil
}

func (m *MemoryStores) AttachFolder(ctx context.Context, userID string, folderID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[userID]
	if !ok {
		return ErrNotFound
	}
	user.FolderIDs = appendUnique(user.FolderIDs, folderID)
	return nil
}

func (m *MemoryStores) DetachFolder(ctx context.Context, userID string, folderID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[userID]
	if !ok {
		return ErrNotFound
	}
	user.FolderIDs = removeString(user.FolderIDs, folderID)
	return nil
}

func (m *MemoryStores) SetPet(ctx context.Context, userID string, petID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[userID]
	if !ok {
		return ErrNotFound
	}
	if user.PetID != "" && user.PetID != petID {
		return ErrConflict
	}
	user.PetID = petID
	return nil
}

func (m *MemoryStores) ClearPet(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[userID]
	if !ok {
		return ErrNotFound
	}
	user.PetID = ""
	return nil
}

func (m *MemoryStores) GetAllUsers(ctx context.Context) ([]*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	users := make([]*model.User, 0, len(m.users))
	for _, user := range m.users {
		users = append(users, cloneUser(user))
	}
	return users, nil
}

func (m *MemoryStores) CountUsers(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.users)), nil
}

// folders

func (m *MemoryStores) AddFolder(ctx context.Context, folder *model.Folder) error {
	if folder.UserID == "" {
		return errors.New("user ID is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.folders[folder.FolderID]; ok {
		return ErrConflict
	}

	folder.CreatedAt = time.Now()
	folder.UpdatedAt = time.Now()
	m.folders[folder.FolderID] = cloneFolder(folder)
	return nil
}

func (m *MemoryStores) FindFolder(ctx context.Context, folderID string) (*model.Folder, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	folder, ok := m.folders[folderID]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneFolder(folder), nil
}

func (m *MemoryStores) UpdateFolderName(ctx context.Context, folderID string, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	folder, ok := m.folders[folderID]
	if !ok {
		return ErrNotFound
	}
	folder.FolderName = name
	folder.UpdatedAt = time.Now()
	return nil
}

func (m *MemoryStores) DeleteFolderByID(ctx context.Context, folderID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.folders[folderID]; !ok {
		return ErrNotFound
	}
	delete(m.folders, folderID)
	return nil
}

func (m *MemoryStores) GetUserFolders(ctx context.Context, userID string) ([]*model.Folder, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var folders []*model.Folder
	for _, folder := range m.folders {
		if folder.UserID == userID {
			folders = append(folders, cloneFolder(folder))
		}
	}
	sort.SliceStable(folders, func(i, j int) bool {
		return folders[i].CreatedAt.After(folders[j].CreatedAt)
	})
	return folders, nil
}

func (m *MemoryStores) AttachNote(ctx context.Context, folderID string, noteID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	folder, ok := m.folders[folderID]
	if !ok {
		return ErrNotFound
	}
	folder.NoteIDs = appendUnique(folder.NoteIDs, noteID)
	return nil
}

func (m *MemoryStores) DetachNote(ctx context.Context, folderID string, noteID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	folder, ok := m.folders[folderID]
	if !ok {
		return ErrNotFound
	}
	folder.NoteIDs = removeString(folder.NoteIDs, noteID)
	return nil
}

func (m *MemoryStores) GetAllFolders(ctx context.Context) ([]*model.Folder, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	folders := make([]*model.Folder, 0, len(m.folders))
	for _, folder := range m.folders {
		folders = append(folders, cloneFolder(folder))
	}
	return folders, nil
}

func (m *MemoryStores) CountFolders(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.folders)), nil
}

// notes

func (m *MemoryStores) AddNote(ctx context.Context, note *model.Note) error {
	if note.UserID == "" {
		return errors.New("user ID is required")
	}
	if note.FolderID == "" {
		return errors.New("folder ID is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.notes[note.NoteID]; ok {
		return ErrConflict
	}

	note.CreatedAt = time.Now()
	note.UpdatedAt = time.Now()
	m.notes[note.NoteID] = cloneNote(note)
	return nil
}

func (m *MemoryStores) FindNote(ctx context.Context, noteID string) (*model.Note, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	note, ok := m.notes[noteID]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneNote(note), nil
}

func (m *MemoryStores) UpdateNote(ctx context.Context, noteID string, updates *model.Note) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	note, ok := m.notes[noteID]
	if !ok {
		return ErrNotFound
	}
	note.Title = updates.Title
	note.Content = updates.Content
	note.UpdatedAt = time.Now()
	return nil
}

func (m *MemoryStores) DeleteNoteByID(ctx context.Context, noteID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.notes[noteID]; !ok {
		return ErrNotFound
	}
	delete(m.notes, noteID)
	return nil
}

func (m *MemoryStores) GetFolderNotes(ctx context.Context, folderID string) ([]*model.Note, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var notes []*model.Note
	for _, note := range m.notes {
		if note.FolderID == folderID {
			notes = append(notes, cloneNote(note))
		}
	}
	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].CreatedAt.After(notes[j].CreatedAt)
	})
	return notes, nil
}

func (m *MemoryStores) GetUserNotes(ctx context.Context, userID string) ([]*model.Note, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var notes []*model.Note
	for _, note := range m.notes {
		if note.UserID == userID {
			notes = append(notes, cloneNote(note))
		}
	}
	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].CreatedAt.After(notes[j].CreatedAt)
	})
	return notes, nil
}

func (m *MemoryStores) AttachTask(ctx context.Context, noteID string, taskID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	note, ok := m.notes[noteID]
	if !ok {
		return ErrNotFound
	}
	note.TaskIDs = appendUnique(note.TaskIDs, taskID)
	return nil
}

func (m *MemoryStores) DetachTask(ctx context.Context, noteID string, taskID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	note, ok := m.notes[noteID]
	if !ok {
		return ErrNotFound
	}
	note.TaskIDs = removeString(note.TaskIDs, taskID)
	return nil
}

func (m *MemoryStores) GetAllNotes(ctx context.Context) ([]*model.Note, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	notes := make([]*model.Note, 0, len(m.notes))
	for _, note := range m.notes {
		notes = append(notes, cloneNote(note))
	}
	return notes, nil
}

func (m *MemoryStores) CountNotes(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.notes)), nil
}

// tasks

func (m *MemoryStores) AddTask(ctx context.Context, task *model.Task) error {
	if task.UserID == "" {
		return errors.New("user ID is required")
	}
	if task.NoteID == "" {
		return errors.New("note ID is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tasks[task.TaskID]; ok {
		return ErrConflict
	}

	task.CreatedAt = time.Now()
	task.UpdatedAt = time.Now()
	m.tasks[task.TaskID] = cloneTask(task)
	return nil
}

func (m *MemoryStores) FindTask(ctx context.Context, taskID string) (*model.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	task, ok := m.tasks[taskID]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneTask(task), nil
}

func (m *MemoryStores) UpdateTask(ctx context.Context, taskID string, updates *model.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	task, ok := m.tasks[taskID]
	if !ok {
		return ErrNotFound
	}
	task.TaskName = updates.TaskName
	task.Description = updates.Description
	task.Status = updates.Status
	task.Category = updates.Category
	task.Points = updates.Points
	task.DueDate = updates.DueDate
	task.CompletedDate = updates.CompletedDate
	task.UpdatedAt = time.Now()
	return nil
}

func (m *MemoryStores) DeleteTaskByID(ctx context.Context, taskID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tasks[taskID]; !ok {
		return ErrNotFound
	}
	delete(m.tasks, taskID)
	return nil
}

func (m *MemoryStores) GetNoteTasks(ctx context.Context, noteID string) ([]*model.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var tasks []*model.Task
	for _, task := range m.tasks {
		if task.NoteID == noteID {
			tasks = append(tasks, cloneTask(task))
		}
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
	})
	return tasks, nil
}

func (m *MemoryStores) GetUserTasks(ctx context.Context, userID string) ([]*model.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var tasks []*model.Task
	for _, task := range m.tasks {
		if task.UserID == userID {
			tasks = append(tasks, cloneTask(task))
		}
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
	})
	return tasks, nil
}

func (m *MemoryStores) MarkOverdue(ctx context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var flipped int64
	for _, task := range m.tasks {
		if task.Status != model.TaskStatusPending {
			continue
		}
		if task.DueDate.IsZero() || !task.DueDate.Before(now) {
			continue
		}
		task.Status = model.TaskStatusOverdue
		task.UpdatedAt = now
		flipped++
	}
	return flipped, nil
}

func (m *MemoryStores) GetAllTasks(ctx context.Context) ([]*model.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	tasks := make([]*model.Task, 0, len(m.tasks))
	for _, task := range m.tasks {
		tasks = append(tasks, cloneTask(task))
	}
	return tasks, nil
}

func (m *MemoryStores) CountTasks(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.tasks)), nil
}

func (m *MemoryStores) CountTasksByStatus(ctx context.Context, status model.TaskStatus) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var count int64
	for _, task := range m.tasks {
		if task.Status == status {
			count++
		}
	}
	return count, nil
}

// pets

func (m *MemoryStores) AddPet(ctx context.Context, pet *model.Pet) error {
	if pet.UserID == "" {
		return errors.New("user ID is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.pets[pet.PetID]; ok {
		return ErrConflict
	}
	for _, existing := range m.pets {
		if existing.UserID == pet.UserID {
			return ErrConflict
		}
	}

	if pet.Level < 1 {
		pet.Level = 1
	}
	if pet.Version < 1 {
		pet.Version = 1
	}
	pet.CreatedAt = time.Now()
	pet.UpdatedAt = time.Now()
	m.pets[pet.PetID] = clonePet(pet)
	return nil
}

func (m *MemoryStores) FindPet(ctx context.Context, petID string) (*model.Pet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	pet, ok := m.pets[petID]
	if !ok {
		return nil, ErrNotFound
	}
	return clonePet(pet), nil
}

func (m *MemoryStores) FindPetByUser(ctx context.Context, userID string) (*model.Pet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, pet := range m.pets {
		if pet.UserID == userID {
			return clonePet(pet), nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStores) UpdatePetName(ctx context.Context, petID string, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	pet, ok := m.pets[petID]
	if !ok {
		return ErrNotFound
	}
	pet.PetName = name
	pet.UpdatedAt = time.Now()
	return nil
}

func (m *MemoryStores) UpdateProgress(ctx context.Context, petID string, level int, points int, expectedVersion int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	pet, ok := m.pets[petID]
	if !ok {
		return ErrNotFound
	}
	if pet.Version != expectedVersion {
		return ErrConflict
	}
	pet.Level = level
	pet.Points = points
	pet.Version++
	pet.UpdatedAt = time.Now()
	return nil
}

func (m *MemoryStores) DeletePetByID(ctx context.Context, petID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.pets[petID]; !ok {
		return ErrNotFound
	}
	delete(m.pets, petID)
	return nil
}

func (m *MemoryStores) GetAllPets(ctx context.Context) ([]*model.Pet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	pets := make([]*model.Pet, 0, len(m.pets))
	for _, pet := range m.pets {
		pets = append(pets, clonePet(pet))
	}
	return pets, nil
}

func (m *MemoryStores) CountPets(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.pets)), nil
}

func (m *MemoryStores) LevelCounts(ctx context.Context) (map[int]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	counts := make(map[int]int64)
	for _, pet := range m.pets {
		counts[pet.Level]++
	}
	return counts, nil
}

// clone helpers keep callers from aliasing stored records

func cloneUser(u *model.User) *model.User {
	c := *u
	c.FolderIDs = append([]string(nil), u.FolderIDs...)
	return &c
}

func cloneFolder(f *model.Folder) *model.Folder {
	c := *f
	c.NoteIDs = append([]string(nil), f.NoteIDs...)
	return &c
}

func cloneNote(n *model.Note) *model.Note {
	c := *n
	c.TaskIDs = append([]string(nil), n.TaskIDs...)
	return &c
}

func cloneTask(t *model.Task) *model.Task {
	c := *t
	return &c
}

func clonePet(p *model.Pet) *model.Pet {
	c := *p
	return &c
}

func appendUnique(list []string, s string) []string {
	for _, v := range list {
		if v == s {
			return list
		}
	}
	return append(list, s)
}

func removeString(list []string, s string) []string {
	var out []string
	for _, v := range list {
		if v != s {
			out = append(out, v)
		}
	}
	return out
}
