// Package memory is an in-memory Repository used by service tests. It mirrors
// the postgres implementation's query semantics (ordering, aggregates, the
// unique award constraint) without a database. A single mutex guards each
// individual operation; WithTransaction runs fn directly, so it provides
// neither isolation across operations nor rollback on error.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/examportal/exam-service/internal/models"
	"github.com/examportal/exam-service/internal/repositories"
)

type Repository struct {
	mu sync.Mutex

	users         map[uint]*models.User
	students      map[uint]*models.Student
	categories    map[uint]*models.Category
	exams         map[uint]*models.Exam
	questions     map[uint]*models.Question
	attempts      map[uint]*models.ExamAttempt
	answers       map[uint]*models.StudentAnswer
	achievements  map[uint]*models.Achievement
	earned        map[uint]*models.StudentAchievement
	notifications map[uint]*models.Notification

	nextID map[string]uint
}

func NewRepository() *Repository {
	return &Repository{
		users:         make(map[uint]*models.User),
		students:      make(map[uint]*models.Student),
		categories:    make(map[uint]*models.Category),
		exams:         make(map[uint]*models.Exam),
		questions:     make(map[uint]*models.Question),
		attempts:      make(map[uint]*models.ExamAttempt),
		answers:       make(map[uint]*models.StudentAnswer),
		achievements:  make(map[uint]*models.Achievement),
		earned:        make(map[uint]*models.StudentAchievement),
		notifications: make(map[uint]*models.Notification),
		nextID:        make(map[string]uint),
	}
}

func (r *Repository) id(kind string) uint {
	r.nextID[kind]++
	return r.nextID[kind]
}

func (r *Repository) User() repositories.UserRepository                 { return (*userRepo)(r) }
func (r *Repository) Student() repositories.StudentRepository           { return (*studentRepo)(r) }
func (r *Repository) Category() repositories.CategoryRepository         { return (*categoryRepo)(r) }
func (r *Repository) Exam() repositories.ExamRepository                 { return (*examRepo)(r) }
func (r *Repository) Question() repositories.QuestionRepository         { return (*questionRepo)(r) }
func (r *Repository) Attempt() repositories.AttemptRepository           { return (*attemptRepo)(r) }
func (r *Repository) Answer() repositories.AnswerRepository             { return (*answerRepo)(r) }
func (r *Repository) Achievement() repositories.AchievementRepository   { return (*achievementRepo)(r) }
func (r *Repository) Notification() repositories.NotificationRepository { return (*notificationRepo)(r) }

func (r *Repository) WithTransaction(_ context.Context, fn func(repositories.Repository) error) error {
	return fn(r)
}

// ===== USERS =====

type userRepo Repository

func (r *userRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == 0 {
		user.ID = (*Repository)(r).id("user")
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *userRepo) GetByID(_ context.Context, id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *userRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *userRepo) Update(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return repositories.ErrNotFound
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

// ===== STUDENTS =====

type studentRepo Repository

func (r *studentRepo) Create(_ context.Context, student *models.Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if student.ID == 0 {
		student.ID = (*Repository)(r).id("student")
	}
	cp := *student
	r.students[student.ID] = &cp
	return nil
}

func (r *studentRepo) GetByID(_ context.Context, id uint) (*models.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.students[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *studentRepo) GetByUserID(_ context.Context, userID uint) (*models.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.students {
		if s.UserID == userID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *studentRepo) Update(_ context.Context, student *models.Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.students[student.ID]; !ok {
		return repositories.ErrNotFound
	}
	cp := *student
	r.students[student.ID] = &cp
	return nil
}

func (r *studentRepo) ListByTotalPoints(_ context.Context, limit int) ([]*models.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Student, 0, len(r.students))
	for _, s := range r.students {
		cp := *s
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalPoints != out[j].TotalPoints {
			return out[i].TotalPoints > out[j].TotalPoints
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *studentRepo) UpdateRank(_ context.Context, id uint, rank int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.students[id]
	if !ok {
		return repositories.ErrNotFound
	}
	s.Rank = &rank
	return nil
}

// ===== CATEGORIES =====

type categoryRepo Repository

func (r *categoryRepo) Create(_ context.Context, category *models.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if category.ID == 0 {
		category.ID = (*Repository)(r).id("category")
	}
	cp := *category
	r.categories[category.ID] = &cp
	return nil
}

func (r *categoryRepo) GetByID(_ context.Context, id uint) (*models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.categories[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *categoryRepo) List(_ context.Context) ([]*models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Category, 0, len(r.categories))
	for _, c := range r.categories {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *categoryRepo) Update(_ context.Context, category *models.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[category.ID]; !ok {
		return repositories.ErrNotFound
	}
	cp := *category
	r.categories[category.ID] = &cp
	return nil
}

func (r *categoryRepo) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.categories, id)
	return nil
}

// ===== EXAMS =====

type examRepo Repository

func (r *examRepo) Create(_ context.Context, exam *models.Exam) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if exam.ID == 0 {
		exam.ID = (*Repository)(r).id("exam")
	}
	cp := *exam
	cp.Questions = nil
	r.exams[exam.ID] = &cp
	return nil
}

func (r *examRepo) GetByID(_ context.Context, id uint) (*models.Exam, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.exams[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (r *examRepo) GetByIDWithQuestions(_ context.Context, id uint) (*models.Exam, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.exams[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *e
	cp.Questions = nil
	var qids []uint
	for qid, q := range r.questions {
		if q.ExamID != nil && *q.ExamID == id {
			qids = append(qids, qid)
		}
	}
	sort.Slice(qids, func(i, j int) bool { return qids[i] < qids[j] })
	for _, qid := range qids {
		cp.Questions = append(cp.Questions, *r.questions[qid])
	}
	return &cp, nil
}

func (r *examRepo) Update(_ context.Context, exam *models.Exam) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.exams[exam.ID]; !ok {
		return repositories.ErrNotFound
	}
	cp := *exam
	cp.Questions = nil
	r.exams[exam.ID] = &cp
	return nil
}

func (r *examRepo) Deactivate(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.exams[id]
	if !ok {
		return repositories.ErrNotFound
	}
	e.IsActive = false
	return nil
}

func (r *examRepo) List(_ context.Context, filters repositories.ExamFilters) ([]*models.Exam, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Exam
	for _, e := range r.exams {
		if filters.CategoryID != nil && (e.CategoryID == nil || *e.CategoryID != *filters.CategoryID) {
			continue
		}
		if filters.ExamType != nil && e.ExamType != *filters.ExamType {
			continue
		}
		if filters.IsActive != nil && e.IsActive != *filters.IsActive {
			continue
		}
		cp := *e
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	total := int64(len(out))
	if filters.Limit > 0 {
		start := filters.Offset
		if start > len(out) {
			start = len(out)
		}
		end := start + filters.Limit
		if end > len(out) {
			end = len(out)
		}
		out = out[start:end]
	}
	return out, total, nil
}

func (r *examRepo) ListUpcoming(_ context.Context, now time.Time) ([]*models.Exam, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Exam
	for _, e := range r.exams {
		if e.IsActive && e.StartDate != nil && e.StartDate.After(now) {
			cp := *e
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(*out[j].StartDate) })
	return out, nil
}

func (r *examRepo) ListActive(_ context.Context, now time.Time) ([]*models.Exam, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Exam
	for _, e := range r.exams {
		if e.IsActive && e.InScheduleWindow(now) {
			cp := *e
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ===== QUESTIONS =====

type questionRepo Repository

func (r *questionRepo) Create(_ context.Context, question *models.Question) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if question.ID == 0 {
		question.ID = (*Repository)(r).id("question")
	}
	cp := *question
	r.questions[question.ID] = &cp
	return nil
}

func (r *questionRepo) GetByID(_ context.Context, id uint) (*models.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.questions[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *q
	return &cp, nil
}

func (r *questionRepo) Update(_ context.Context, question *models.Question) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.questions[question.ID]; !ok {
		return repositories.ErrNotFound
	}
	cp := *question
	r.questions[question.ID] = &cp
	return nil
}

func (r *questionRepo) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.questions, id)
	return nil
}

func (r *questionRepo) List(_ context.Context, filters repositories.QuestionFilters) ([]*models.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Question
	for _, q := range r.questions {
		if filters.BankOnly {
			if q.ExamID != nil {
				continue
			}
		} else if filters.ExamID != nil && (q.ExamID == nil || *q.ExamID != *filters.ExamID) {
			continue
		}
		if filters.CategoryID != nil && (q.CategoryID == nil || *q.CategoryID != *filters.CategoryID) {
			continue
		}
		if filters.Difficulty != nil && (q.Difficulty == nil || *q.Difficulty != *filters.Difficulty) {
			continue
		}
		cp := *q
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *questionRepo) GetByExam(ctx context.Context, examID uint) ([]*models.Question, error) {
	return r.List(ctx, repositories.QuestionFilters{ExamID: &examID})
}

func (r *questionRepo) CountByExam(ctx context.Context, examID uint) (int, error) {
	questions, err := r.GetByExam(ctx, examID)
	if err != nil {
		return 0, err
	}
	return len(questions), nil
}

// ===== ATTEMPTS =====

type attemptRepo Repository

func (r *attemptRepo) Create(_ context.Context, attempt *models.ExamAttempt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if attempt.ID == 0 {
		attempt.ID = (*Repository)(r).id("attempt")
	}
	cp := *attempt
	cp.Answers = nil
	r.attempts[attempt.ID] = &cp
	return nil
}

func (r *attemptRepo) GetByID(_ context.Context, id uint) (*models.ExamAttempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.attempts[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *attemptRepo) GetByIDForUpdate(ctx context.Context, id uint) (*models.ExamAttempt, error) {
	return r.GetByID(ctx, id)
}

func (r *attemptRepo) Update(_ context.Context, attempt *models.ExamAttempt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.attempts[attempt.ID]; !ok {
		return repositories.ErrNotFound
	}
	cp := *attempt
	cp.Answers = nil
	r.attempts[attempt.ID] = &cp
	return nil
}

func (r *attemptRepo) List(_ context.Context, filters repositories.AttemptFilters) ([]*models.ExamAttempt, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.ExamAttempt
	for _, a := range r.attempts {
		if filters.Status != "" && a.Status != filters.Status {
			continue
		}
		if filters.StudentID != nil && a.StudentID != *filters.StudentID {
			continue
		}
		if filters.ExamID != nil && a.ExamID != *filters.ExamID {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.After(out[j].StartTime) })
	total := int64(len(out))
	if filters.Limit > 0 {
		start := filters.Offset
		if start > len(out) {
			start = len(out)
		}
		end := start + filters.Limit
		if end > len(out) {
			end = len(out)
		}
		out = out[start:end]
	}
	return out, total, nil
}

func (r *attemptRepo) CountByStudentAndExam(_ context.Context, studentID, examID uint) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, a := range r.attempts {
		if a.StudentID == studentID && a.ExamID == examID {
			count++
		}
	}
	return count, nil
}

func (r *attemptRepo) ListCompletedByExam(_ context.Context, examID uint, limit int) ([]*models.ExamAttempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.ExamAttempt
	for _, a := range r.attempts {
		if a.ExamID == examID && a.Status == models.AttemptCompleted {
			cp := *a
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		si, sj := scoreOf(out[i]), scoreOf(out[j])
		if si != sj {
			return si > sj
		}
		ti, tj := timeSpentOf(out[i]), timeSpentOf(out[j])
		if ti != tj {
			return ti < tj
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func scoreOf(a *models.ExamAttempt) float64 {
	if a.Score == nil {
		return 0
	}
	return *a.Score
}

func timeSpentOf(a *models.ExamAttempt) int {
	if a.TimeSpent == nil {
		return 0
	}
	return *a.TimeSpent
}

func (r *attemptRepo) UpdateRank(_ context.Context, id uint, rank int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.attempts[id]
	if !ok {
		return repositories.ErrNotFound
	}
	a.Rank = &rank
	return nil
}

func (r *attemptRepo) CountCompletedByStudent(_ context.Context, studentID uint) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, a := range r.attempts {
		if a.StudentID == studentID && a.Status == models.AttemptCompleted {
			count++
		}
	}
	return count, nil
}

func (r *attemptRepo) HasPerfectScore(_ context.Context, studentID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.attempts {
		if a.StudentID == studentID && a.Status == models.AttemptCompleted &&
			a.Percentage != nil && *a.Percentage == 100 {
			return true, nil
		}
	}
	return false, nil
}

func (r *attemptRepo) GetStudentStats(_ context.Context, studentID uint) (*repositories.StudentAttemptStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats := &repositories.StudentAttemptStats{}
	var sum float64
	for _, a := range r.attempts {
		if a.StudentID != studentID || a.Status != models.AttemptCompleted {
			continue
		}
		stats.CompletedAttempts++
		if a.Percentage != nil {
			sum += *a.Percentage
			if *a.Percentage > stats.HighestPercentage {
				stats.HighestPercentage = *a.Percentage
			}
		}
		stats.TotalTimeSpent += timeSpentOf(a)
	}
	if stats.CompletedAttempts > 0 {
		stats.AveragePercentage = sum / float64(stats.CompletedAttempts)
	}
	return stats, nil
}

func (r *attemptRepo) ListCompletedByStudent(_ context.Context, studentID uint, limit int) ([]*models.ExamAttempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.ExamAttempt
	for _, a := range r.attempts {
		if a.StudentID == studentID && a.Status == models.AttemptCompleted {
			cp := *a
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.After(out[j].StartTime) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ===== ANSWERS =====

type answerRepo Repository

func (r *answerRepo) Create(_ context.Context, answer *models.StudentAnswer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if answer.ID == 0 {
		answer.ID = (*Repository)(r).id("answer")
	}
	cp := *answer
	r.answers[answer.ID] = &cp
	return nil
}

func (r *answerRepo) CreateBatch(ctx context.Context, answers []*models.StudentAnswer) error {
	for _, a := range answers {
		if err := r.Create(ctx, a); err != nil {
			return err
		}
	}
	return nil
}

func (r *answerRepo) GetByAttempt(_ context.Context, attemptID uint) ([]*models.StudentAnswer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.StudentAnswer
	for _, a := range r.answers {
		if a.AttemptID == attemptID {
			cp := *a
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QuestionID < out[j].QuestionID })
	return out, nil
}

// ===== ACHIEVEMENTS =====

type achievementRepo Repository

func (r *achievementRepo) Create(_ context.Context, achievement *models.Achievement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if achievement.ID == 0 {
		achievement.ID = (*Repository)(r).id("achievement")
	}
	cp := *achievement
	r.achievements[achievement.ID] = &cp
	return nil
}

func (r *achievementRepo) GetByID(_ context.Context, id uint) (*models.Achievement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.achievements[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *achievementRepo) GetByCriteria(_ context.Context, criteria models.AchievementCriteria) (*models.Achievement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.achievements {
		if a.Criteria == criteria {
			cp := *a
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *achievementRepo) List(_ context.Context) ([]*models.Achievement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Achievement
	for _, a := range r.achievements {
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *achievementRepo) Update(_ context.Context, achievement *models.Achievement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.achievements[achievement.ID]; !ok {
		return repositories.ErrNotFound
	}
	cp := *achievement
	r.achievements[achievement.ID] = &cp
	return nil
}

func (r *achievementRepo) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.achievements, id)
	return nil
}

func (r *achievementRepo) Award(_ context.Context, studentID, achievementID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.earned {
		if e.StudentID == studentID && e.AchievementID == achievementID {
			return false, nil
		}
	}
	id := (*Repository)(r).id("earned")
	r.earned[id] = &models.StudentAchievement{
		ID:            id,
		StudentID:     studentID,
		AchievementID: achievementID,
		EarnedAt:      time.Now(),
	}
	return true, nil
}

func (r *achievementRepo) GetByStudent(_ context.Context, studentID uint) ([]*models.StudentAchievement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.StudentAchievement
	for _, e := range r.earned {
		if e.StudentID == studentID {
			cp := *e
			if a, ok := r.achievements[e.AchievementID]; ok {
				cp.Achievement = *a
			}
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ===== NOTIFICATIONS =====

type notificationRepo Repository

func (r *notificationRepo) Create(_ context.Context, notification *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if notification.ID == 0 {
		notification.ID = (*Repository)(r).id("notification")
	}
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now()
	}
	cp := *notification
	r.notifications[notification.ID] = &cp
	return nil
}

func (r *notificationRepo) GetByUser(_ context.Context, userID uint, limit, offset int) ([]*models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Notification
	for _, n := range r.notifications {
		if n.UserID == userID {
			cp := *n
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if limit > 0 {
		start := offset
		if start > len(out) {
			start = len(out)
		}
		end := start + limit
		if end > len(out) {
			end = len(out)
		}
		out = out[start:end]
	}
	return out, nil
}

func (r *notificationRepo) MarkRead(_ context.Context, userID uint, ids []uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		if n, ok := r.notifications[id]; ok && n.UserID == userID {
			n.IsRead = true
		}
	}
	return nil
}

func (r *notificationRepo) MarkAllRead(_ context.Context, userID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.notifications {
		if n.UserID == userID {
			n.IsRead = true
		}
	}
	return nil
}
