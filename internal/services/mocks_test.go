package services

import (
	"context"
	"time"

	"github.com/coursecraft/lms/internal/models"
)

// Hand-written mocks shared by the service tests. Every method delegates to its Fn field
// and returns zero values when the field is nil.

type mockUserRepo struct {
	createFn               func(ctx context.Context, user *models.Profile) error
	getByIDFn              func(ctx context.Context, id int) (*models.Profile, error)
	getByEmailFn           func(ctx context.Context, email string) (*models.Profile, error)
	getByEmailOrUsernameFn func(ctx context.Context, login string) (*models.Profile, error)
	existsByEmailFn        func(ctx context.Context, email string) (bool, error)
	existsByUsernameFn     func(ctx context.Context, username string) (bool, error)
	updateProfileFn        func(ctx context.Context, id int, fullName, avatarURL string) error
	getAllFn               func(ctx context.Context, role *models.Role, search string, page, count int) ([]models.UserListItem, error)
	getUsernamesFn         func(ctx context.Context, ids []int) (map[int]string, error)
	updateRoleFn           func(ctx context.Context, id int, role models.Role) error
	deleteFn               func(ctx context.Context, id int) error
	countByRoleFn          func(ctx context.Context) (map[string]int, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.Profile) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int) (*models.Profile, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	if m.getByEmailFn != nil {
		return m.getByEmailFn(ctx, email)
	}
	return nil, nil
}

func (m *mockUserRepo) GetByEmailOrUsername(ctx context.Context, login string) (*models.Profile, error) {
	if m.getByEmailOrUsernameFn != nil {
		return m.getByEmailOrUsernameFn(ctx, login)
	}
	return nil, nil
}

func (m *mockUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if m.existsByEmailFn != nil {
		return m.existsByEmailFn(ctx, email)
	}
	return false, nil
}

func (m *mockUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	if m.existsByUsernameFn != nil {
		return m.existsByUsernameFn(ctx, username)
	}
	return false, nil
}

func (m *mockUserRepo) UpdateProfile(ctx context.Context, id int, fullName, avatarURL string) error {
	if m.updateProfileFn != nil {
		return m.updateProfileFn(ctx, id, fullName, avatarURL)
	}
	return nil
}

func (m *mockUserRepo) GetAll(ctx context.Context, role *models.Role, search string, page, count int) ([]models.UserListItem, error) {
	if m.getAllFn != nil {
		return m.getAllFn(ctx, role, search, page, count)
	}
	return nil, nil
}

func (m *mockUserRepo) GetUsernames(ctx context.Context, ids []int) (map[int]string, error) {
	if m.getUsernamesFn != nil {
		return m.getUsernamesFn(ctx, ids)
	}
	return nil, nil
}

func (m *mockUserRepo) UpdateRole(ctx context.Context, id int, role models.Role) error {
	if m.updateRoleFn != nil {
		return m.updateRoleFn(ctx, id, role)
	}
	return nil
}

func (m *mockUserRepo) Delete(ctx context.Context, id int) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockUserRepo) CountByRole(ctx context.Context) (map[string]int, error) {
	if m.countByRoleFn != nil {
		return m.countByRoleFn(ctx)
	}
	return nil, nil
}

type mockTokenRepo struct {
	createFn              func(ctx context.Context, userToken *models.UserToken) error
	getByTokenFn          func(ctx context.Context, token string) (*models.UserToken, error)
	updateTokenFn         func(ctx context.Context, oldToken, newToken string, userID int) error
	deleteByTokenFn       func(ctx context.Context, token string) error
	deleteExpiredTokensFn func(ctx context.Context, expiryTime time.Time) (int, error)
}

func (m *mockTokenRepo) Create(ctx context.Context, userToken *models.UserToken) error {
	if m.createFn != nil {
		return m.createFn(ctx, userToken)
	}
	return nil
}

func (m *mockTokenRepo) GetByToken(ctx context.Context, token string) (*models.UserToken, error) {
	if m.getByTokenFn != nil {
		return m.getByTokenFn(ctx, token)
	}
	return nil, nil
}

func (m *mockTokenRepo) UpdateToken(ctx context.Context, oldToken, newToken string, userID int) error {
	if m.updateTokenFn != nil {
		return m.updateTokenFn(ctx, oldToken, newToken, userID)
	}
	return nil
}

func (m *mockTokenRepo) DeleteByToken(ctx context.Context, token string) error {
	if m.deleteByTokenFn != nil {
		return m.deleteByTokenFn(ctx, token)
	}
	return nil
}

func (m *mockTokenRepo) DeleteExpiredTokens(ctx context.Context, expiryTime time.Time) (int, error) {
	if m.deleteExpiredTokensFn != nil {
		return m.deleteExpiredTokensFn(ctx, expiryTime)
	}
	return 0, nil
}

type mockCourseRepo struct {
	getByIDFn               func(ctx context.Context, id int) (*models.Course, error)
	getByBillingProductIDFn func(ctx context.Context, productID string) (*models.Course, error)
	existsBySlugFn          func(ctx context.Context, slug string, excludeID int) (bool, error)
	checkOwnershipFn        func(ctx context.Context, id, instructorID int) (bool, error)
	getByInstructorOrFullFn func(ctx context.Context, instructorID *int, status *models.CourseStatus, search string, page, count int) ([]models.CourseListItem, error)
	createFn                func(ctx context.Context, course *models.Course) error
	updateFn                func(ctx context.Context, course *models.Course) error
	updateStatusFn          func(ctx context.Context, id int, status models.CourseStatus, publishedAt *time.Time) error
	deleteFn                func(ctx context.Context, id int) error
	countByStatusFn         func(ctx context.Context) (map[string]int, error)
	getPublishedFn          func(ctx context.Context, userID int, search string, page, count int) ([]models.CatalogCourse, error)
	getPublishedBySlugFn    func(ctx context.Context, slug string, userID int) (*models.CourseDetail, error)
}

func (m *mockCourseRepo) GetByID(ctx context.Context, id int) (*models.Course, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockCourseRepo) GetByBillingProductID(ctx context.Context, productID string) (*models.Course, error) {
	if m.getByBillingProductIDFn != nil {
		return m.getByBillingProductIDFn(ctx, productID)
	}
	return nil, nil
}

func (m *mockCourseRepo) ExistsBySlug(ctx context.Context, slug string, excludeID int) (bool, error) {
	if m.existsBySlugFn != nil {
		return m.existsBySlugFn(ctx, slug, excludeID)
	}
	return false, nil
}

func (m *mockCourseRepo) CheckOwnership(ctx context.Context, id, instructorID int) (bool, error) {
	if m.checkOwnershipFn != nil {
		return m.checkOwnershipFn(ctx, id, instructorID)
	}
	return false, nil
}

func (m *mockCourseRepo) GetByInstructorOrFull(ctx context.Context, instructorID *int, status *models.CourseStatus, search string, page, count int) ([]models.CourseListItem, error) {
	if m.getByInstructorOrFullFn != nil {
		return m.getByInstructorOrFullFn(ctx, instructorID, status, search, page, count)
	}
	return nil, nil
}

func (m *mockCourseRepo) Create(ctx context.Context, course *models.Course) error {
	if m.createFn != nil {
		return m.createFn(ctx, course)
	}
	return nil
}

func (m *mockCourseRepo) Update(ctx context.Context, course *models.Course) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, course)
	}
	return nil
}

func (m *mockCourseRepo) UpdateStatus(ctx context.Context, id int, status models.CourseStatus, publishedAt *time.Time) error {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, id, status, publishedAt)
	}
	return nil
}

func (m *mockCourseRepo) Delete(ctx context.Context, id int) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockCourseRepo) CountByStatus(ctx context.Context) (map[string]int, error) {
	if m.countByStatusFn != nil {
		return m.countByStatusFn(ctx)
	}
	return nil, nil
}

func (m *mockCourseRepo) GetPublished(ctx context.Context, userID int, search string, page, count int) ([]models.CatalogCourse, error) {
	if m.getPublishedFn != nil {
		return m.getPublishedFn(ctx, userID, search, page, count)
	}
	return nil, nil
}

func (m *mockCourseRepo) GetPublishedBySlug(ctx context.Context, slug string, userID int) (*models.CourseDetail, error) {
	if m.getPublishedBySlugFn != nil {
		return m.getPublishedBySlugFn(ctx, slug, userID)
	}
	return nil, nil
}

type mockModuleRepo struct {
	getByIDFn                     func(ctx context.Context, id int) (*models.Module, error)
	getByCourseIDFn               func(ctx context.Context, courseID int) ([]models.Module, error)
	countByCourseIDFn             func(ctx context.Context, courseID int) (int, error)
	maxPositionFn                 func(ctx context.Context, courseID int) (int, error)
	existsByPositionInCourseFn    func(ctx context.Context, courseID, position int) (bool, error)
	incrementPositionForModulesFn func(ctx context.Context, courseID, position int) error
	createFn                      func(ctx context.Context, module *models.Module) error
	updateFn                      func(ctx context.Context, module *models.Module) error
	deleteFn                      func(ctx context.Context, module *models.Module) error
	reorderFn                     func(ctx context.Context, courseID int, orderedIDs []int) error
}

func (m *mockModuleRepo) GetByID(ctx context.Context, id int) (*models.Module, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockModuleRepo) GetByCourseID(ctx context.Context, courseID int) ([]models.Module, error) {
	if m.getByCourseIDFn != nil {
		return m.getByCourseIDFn(ctx, courseID)
	}
	return nil, nil
}

func (m *mockModuleRepo) CountByCourseID(ctx context.Context, courseID int) (int, error) {
	if m.countByCourseIDFn != nil {
		return m.countByCourseIDFn(ctx, courseID)
	}
	return 0, nil
}

func (m *mockModuleRepo) MaxPosition(ctx context.Context, courseID int) (int, error) {
	if m.maxPositionFn != nil {
		return m.maxPositionFn(ctx, courseID)
	}
	return 0, nil
}

func (m *mockModuleRepo) ExistsByPositionInCourse(ctx context.Context, courseID, position int) (bool, error) {
	if m.existsByPositionInCourseFn != nil {
		return m.existsByPositionInCourseFn(ctx, courseID, position)
	}
	return false, nil
}

func (m *mockModuleRepo) IncrementPositionForModules(ctx context.Context, courseID, position int) error {
	if m.incrementPositionForModulesFn != nil {
		return m.incrementPositionForModulesFn(ctx, courseID, position)
	}
	return nil
}

func (m *mockModuleRepo) Create(ctx context.Context, module *models.Module) error {
	if m.createFn != nil {
		return m.createFn(ctx, module)
	}
	return nil
}

func (m *mockModuleRepo) Update(ctx context.Context, module *models.Module) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, module)
	}
	return nil
}

func (m *mockModuleRepo) Delete(ctx context.Context, module *models.Module) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, module)
	}
	return nil
}

func (m *mockModuleRepo) Reorder(ctx context.Context, courseID int, orderedIDs []int) error {
	if m.reorderFn != nil {
		return m.reorderFn(ctx, courseID, orderedIDs)
	}
	return nil
}

type mockLessonRepo struct {
	getByIDFn                     func(ctx context.Context, id int) (*models.Lesson, error)
	getBySlugFn                   func(ctx context.Context, slug string) (*models.Lesson, error)
	getCurriculumItemsFn          func(ctx context.Context, courseID, userID int) ([]models.LessonListItem, error)
	existsBySlugFn                func(ctx context.Context, slug string, excludeID int) (bool, error)
	checkOwnershipFn              func(ctx context.Context, id, instructorID int) (bool, error)
	countByCourseIDFn             func(ctx context.Context, courseID int) (int, error)
	countWithoutContentFn         func(ctx context.Context, courseID int) (int, error)
	maxPositionFn                 func(ctx context.Context, moduleID int) (int, error)
	existsByPositionInModuleFn    func(ctx context.Context, moduleID, position int) (bool, error)
	incrementPositionForLessonsFn func(ctx context.Context, moduleID, position int) error
	createFn                      func(ctx context.Context, lesson *models.Lesson) error
	updateFn                      func(ctx context.Context, lesson *models.Lesson) error
	updateDurationFn              func(ctx context.Context, id, seconds int) error
	deleteFn                      func(ctx context.Context, lesson *models.Lesson) error
	reorderFn                     func(ctx context.Context, moduleID int, orderedIDs []int) error
	moveFn                        func(ctx context.Context, lesson *models.Lesson, target *models.Module, position int) (int, error)
}

func (m *mockLessonRepo) GetByID(ctx context.Context, id int) (*models.Lesson, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockLessonRepo) GetBySlug(ctx context.Context, slug string) (*models.Lesson, error) {
	if m.getBySlugFn != nil {
		return m.getBySlugFn(ctx, slug)
	}
	return nil, nil
}

func (m *mockLessonRepo) GetCurriculumItems(ctx context.Context, courseID, userID int) ([]models.LessonListItem, error) {
	if m.getCurriculumItemsFn != nil {
		return m.getCurriculumItemsFn(ctx, courseID, userID)
	}
	return nil, nil
}

func (m *mockLessonRepo) ExistsBySlug(ctx context.Context, slug string, excludeID int) (bool, error) {
	if m.existsBySlugFn != nil {
		return m.existsBySlugFn(ctx, slug, excludeID)
	}
	return false, nil
}

func (m *mockLessonRepo) CheckOwnership(ctx context.Context, id, instructorID int) (bool, error) {
	if m.checkOwnershipFn != nil {
		return m.checkOwnershipFn(ctx, id, instructorID)
	}
	return false, nil
}

func (m *mockLessonRepo) CountByCourseID(ctx context.Context, courseID int) (int, error) {
	if m.countByCourseIDFn != nil {
		return m.countByCourseIDFn(ctx, courseID)
	}
	return 0, nil
}

func (m *mockLessonRepo) CountWithoutContent(ctx context.Context, courseID int) (int, error) {
	if m.countWithoutContentFn != nil {
		return m.countWithoutContentFn(ctx, courseID)
	}
	return 0, nil
}

func (m *mockLessonRepo) MaxPosition(ctx context.Context, moduleID int) (int, error) {
	if m.maxPositionFn != nil {
		return m.maxPositionFn(ctx, moduleID)
	}
	return 0, nil
}

func (m *mockLessonRepo) ExistsByPositionInModule(ctx context.Context, moduleID, position int) (bool, error) {
	if m.existsByPositionInModuleFn != nil {
		return m.existsByPositionInModuleFn(ctx, moduleID, position)
	}
	return false, nil
}

func (m *mockLessonRepo) IncrementPositionForLessons(ctx context.Context, moduleID, position int) error {
	if m.incrementPositionForLessonsFn != nil {
		return m.incrementPositionForLessonsFn(ctx, moduleID, position)
	}
	return nil
}

func (m *mockLessonRepo) Create(ctx context.Context, lesson *models.Lesson) error {
	if m.createFn != nil {
		return m.createFn(ctx, lesson)
	}
	return nil
}

func (m *mockLessonRepo) Update(ctx context.Context, lesson *models.Lesson) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, lesson)
	}
	return nil
}

func (m *mockLessonRepo) UpdateDuration(ctx context.Context, id, seconds int) error {
	if m.updateDurationFn != nil {
		return m.updateDurationFn(ctx, id, seconds)
	}
	return nil
}

func (m *mockLessonRepo) Delete(ctx context.Context, lesson *models.Lesson) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, lesson)
	}
	return nil
}

func (m *mockLessonRepo) Reorder(ctx context.Context, moduleID int, orderedIDs []int) error {
	if m.reorderFn != nil {
		return m.reorderFn(ctx, moduleID, orderedIDs)
	}
	return nil
}

func (m *mockLessonRepo) Move(ctx context.Context, lesson *models.Lesson, target *models.Module, position int) (int, error) {
	if m.moveFn != nil {
		return m.moveFn(ctx, lesson, target, position)
	}
	return 0, nil
}

type mockContentRepo struct {
	getCurrentFn           func(ctx context.Context, lessonID int) (*models.LessonContent, error)
	getByVersionFn         func(ctx context.Context, lessonID, version int) (*models.LessonContent, error)
	getHistoryFn           func(ctx context.Context, lessonID int) ([]models.ContentVersionInfo, error)
	getCurrentByCourseIDFn func(ctx context.Context, courseID int) (map[int]models.LessonContent, error)
	saveVersionFn          func(ctx context.Context, content *models.LessonContent) error
}

func (m *mockContentRepo) GetCurrent(ctx context.Context, lessonID int) (*models.LessonContent, error) {
	if m.getCurrentFn != nil {
		return m.getCurrentFn(ctx, lessonID)
	}
	return nil, nil
}

func (m *mockContentRepo) GetByVersion(ctx context.Context, lessonID, version int) (*models.LessonContent, error) {
	if m.getByVersionFn != nil {
		return m.getByVersionFn(ctx, lessonID, version)
	}
	return nil, nil
}

func (m *mockContentRepo) GetHistory(ctx context.Context, lessonID int) ([]models.ContentVersionInfo, error) {
	if m.getHistoryFn != nil {
		return m.getHistoryFn(ctx, lessonID)
	}
	return nil, nil
}

func (m *mockContentRepo) GetCurrentByCourseID(ctx context.Context, courseID int) (map[int]models.LessonContent, error) {
	if m.getCurrentByCourseIDFn != nil {
		return m.getCurrentByCourseIDFn(ctx, courseID)
	}
	return nil, nil
}

func (m *mockContentRepo) SaveVersion(ctx context.Context, content *models.LessonContent) error {
	if m.saveVersionFn != nil {
		return m.saveVersionFn(ctx, content)
	}
	return nil
}

type mockEnrollmentRepo struct {
	getByUserAndCourseFn    func(ctx context.Context, userID, courseID int) (*models.Enrollment, error)
	upsertFn                func(ctx context.Context, enrollment *models.Enrollment) error
	updateStatusFn          func(ctx context.Context, userID, courseID int, status models.EnrollmentStatus, completedAt *time.Time) error
	updateStatusByOrderIDFn func(ctx context.Context, orderID string, status models.EnrollmentStatus) (int, error)
	cancelBySourceFn        func(ctx context.Context, userID, courseID int, source models.EnrollmentSource) error
	getByUserIDFn           func(ctx context.Context, userID int) ([]models.MyEnrollment, error)
	deleteFn                func(ctx context.Context, userID, courseID int) error
	countFn                 func(ctx context.Context) (int, int, error)
}

func (m *mockEnrollmentRepo) GetByUserAndCourse(ctx context.Context, userID, courseID int) (*models.Enrollment, error) {
	if m.getByUserAndCourseFn != nil {
		return m.getByUserAndCourseFn(ctx, userID, courseID)
	}
	return nil, nil
}

func (m *mockEnrollmentRepo) Upsert(ctx context.Context, enrollment *models.Enrollment) error {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, enrollment)
	}
	return nil
}

func (m *mockEnrollmentRepo) UpdateStatus(ctx context.Context, userID, courseID int, status models.EnrollmentStatus, completedAt *time.Time) error {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, userID, courseID, status, completedAt)
	}
	return nil
}

func (m *mockEnrollmentRepo) UpdateStatusByOrderID(ctx context.Context, orderID string, status models.EnrollmentStatus) (int, error) {
	if m.updateStatusByOrderIDFn != nil {
		return m.updateStatusByOrderIDFn(ctx, orderID, status)
	}
	return 0, nil
}

func (m *mockEnrollmentRepo) CancelBySource(ctx context.Context, userID, courseID int, source models.EnrollmentSource) error {
	if m.cancelBySourceFn != nil {
		return m.cancelBySourceFn(ctx, userID, courseID, source)
	}
	return nil
}

func (m *mockEnrollmentRepo) GetByUserID(ctx context.Context, userID int) ([]models.MyEnrollment, error) {
	if m.getByUserIDFn != nil {
		return m.getByUserIDFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockEnrollmentRepo) Delete(ctx context.Context, userID, courseID int) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, userID, courseID)
	}
	return nil
}

func (m *mockEnrollmentRepo) Count(ctx context.Context) (int, int, error) {
	if m.countFn != nil {
		return m.countFn(ctx)
	}
	return 0, 0, nil
}

type mockProgressRepo struct {
	getByUserAndLessonFn     func(ctx context.Context, userID, lessonID int) (*models.LessonProgress, error)
	markCompletedFn          func(ctx context.Context, userID, courseID, lessonID int) (bool, error)
	savePositionFn           func(ctx context.Context, userID, courseID, lessonID, seconds int) error
	countCompletedInCourseFn func(ctx context.Context, userID, courseID int) (int, error)
}

func (m *mockProgressRepo) GetByUserAndLesson(ctx context.Context, userID, lessonID int) (*models.LessonProgress, error) {
	if m.getByUserAndLessonFn != nil {
		return m.getByUserAndLessonFn(ctx, userID, lessonID)
	}
	return nil, nil
}

func (m *mockProgressRepo) MarkCompleted(ctx context.Context, userID, courseID, lessonID int) (bool, error) {
	if m.markCompletedFn != nil {
		return m.markCompletedFn(ctx, userID, courseID, lessonID)
	}
	return false, nil
}

func (m *mockProgressRepo) SavePosition(ctx context.Context, userID, courseID, lessonID, seconds int) error {
	if m.savePositionFn != nil {
		return m.savePositionFn(ctx, userID, courseID, lessonID, seconds)
	}
	return nil
}

func (m *mockProgressRepo) CountCompletedInCourse(ctx context.Context, userID, courseID int) (int, error) {
	if m.countCompletedInCourseFn != nil {
		return m.countCompletedInCourseFn(ctx, userID, courseID)
	}
	return 0, nil
}

type mockXPRepo struct {
	createFn            func(ctx context.Context, log *models.XPLog) error
	existsByReferenceFn func(ctx context.Context, userID int, reason models.XPReason, referenceID int) (bool, error)
	getTotalByUserIDFn  func(ctx context.Context, userID int) (int, error)
	getTotalAllFn       func(ctx context.Context) (int, error)
	getTopFn            func(ctx context.Context, limit int) ([]models.LeaderboardEntry, error)
	getAllTotalsFn      func(ctx context.Context) ([]models.XPTotal, error)
}

func (m *mockXPRepo) Create(ctx context.Context, log *models.XPLog) error {
	if m.createFn != nil {
		return m.createFn(ctx, log)
	}
	return nil
}

func (m *mockXPRepo) ExistsByReference(ctx context.Context, userID int, reason models.XPReason, referenceID int) (bool, error) {
	if m.existsByReferenceFn != nil {
		return m.existsByReferenceFn(ctx, userID, reason, referenceID)
	}
	return false, nil
}

func (m *mockXPRepo) GetTotalByUserID(ctx context.Context, userID int) (int, error) {
	if m.getTotalByUserIDFn != nil {
		return m.getTotalByUserIDFn(ctx, userID)
	}
	return 0, nil
}

func (m *mockXPRepo) GetTotalAll(ctx context.Context) (int, error) {
	if m.getTotalAllFn != nil {
		return m.getTotalAllFn(ctx)
	}
	return 0, nil
}

func (m *mockXPRepo) GetTop(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	if m.getTopFn != nil {
		return m.getTopFn(ctx, limit)
	}
	return nil, nil
}

func (m *mockXPRepo) GetAllTotals(ctx context.Context) ([]models.XPTotal, error) {
	if m.getAllTotalsFn != nil {
		return m.getAllTotalsFn(ctx)
	}
	return nil, nil
}

type mockStreakRepo struct {
	getByUserIDFn  func(ctx context.Context, userID int) (*models.UserStreak, error)
	upsertFn       func(ctx context.Context, streak *models.UserStreak) error
	expireBeforeFn func(ctx context.Context, day time.Time) (int, error)
}

func (m *mockStreakRepo) GetByUserID(ctx context.Context, userID int) (*models.UserStreak, error) {
	if m.getByUserIDFn != nil {
		return m.getByUserIDFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockStreakRepo) Upsert(ctx context.Context, streak *models.UserStreak) error {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, streak)
	}
	return nil
}

func (m *mockStreakRepo) ExpireBefore(ctx context.Context, day time.Time) (int, error) {
	if m.expireBeforeFn != nil {
		return m.expireBeforeFn(ctx, day)
	}
	return 0, nil
}

type mockLeaderboard struct {
	addFn     func(ctx context.Context, userID, amount int) error
	topFn     func(ctx context.Context, limit int) ([]models.XPTotal, error)
	replaceFn func(ctx context.Context, totals []models.XPTotal) error
}

func (m *mockLeaderboard) Add(ctx context.Context, userID, amount int) error {
	if m.addFn != nil {
		return m.addFn(ctx, userID, amount)
	}
	return nil
}

func (m *mockLeaderboard) Top(ctx context.Context, limit int) ([]models.XPTotal, error) {
	if m.topFn != nil {
		return m.topFn(ctx, limit)
	}
	return nil, nil
}

func (m *mockLeaderboard) Replace(ctx context.Context, totals []models.XPTotal) error {
	if m.replaceFn != nil {
		return m.replaceFn(ctx, totals)
	}
	return nil
}

type mockCertificateRepo struct {
	getByUserAndCourseFn func(ctx context.Context, userID, courseID int) (*models.Certificate, error)
	createFn             func(ctx context.Context, cert *models.Certificate) (bool, error)
	getByUserIDFn        func(ctx context.Context, userID int) ([]models.MyCertificate, error)
	getVerificationFn    func(ctx context.Context, number string) (*models.CertificateVerification, error)
	countFn              func(ctx context.Context) (int, error)
}

func (m *mockCertificateRepo) GetByUserAndCourse(ctx context.Context, userID, courseID int) (*models.Certificate, error) {
	if m.getByUserAndCourseFn != nil {
		return m.getByUserAndCourseFn(ctx, userID, courseID)
	}
	return nil, nil
}

func (m *mockCertificateRepo) Create(ctx context.Context, cert *models.Certificate) (bool, error) {
	if m.createFn != nil {
		return m.createFn(ctx, cert)
	}
	return false, nil
}

func (m *mockCertificateRepo) GetByUserID(ctx context.Context, userID int) ([]models.MyCertificate, error) {
	if m.getByUserIDFn != nil {
		return m.getByUserIDFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockCertificateRepo) GetVerification(ctx context.Context, number string) (*models.CertificateVerification, error) {
	if m.getVerificationFn != nil {
		return m.getVerificationFn(ctx, number)
	}
	return nil, nil
}

func (m *mockCertificateRepo) Count(ctx context.Context) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx)
	}
	return 0, nil
}

type mockLicenseRepo struct {
	getByIDFn      func(ctx context.Context, id int) (*models.License, error)
	getByKeyFn     func(ctx context.Context, key string) (*models.License, error)
	getByUserIDFn  func(ctx context.Context, userID int) ([]models.License, error)
	getStaleFn     func(ctx context.Context, olderThan time.Time, limit int) ([]models.License, error)
	createFn       func(ctx context.Context, license *models.License) error
	updateStatusFn func(ctx context.Context, id int, status models.LicenseStatus, expiresAt *time.Time, verifiedAt time.Time) error
	reactivateFn   func(ctx context.Context, id int, instanceID string, expiresAt *time.Time, activatedAt time.Time) error
}

func (m *mockLicenseRepo) GetByID(ctx context.Context, id int) (*models.License, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockLicenseRepo) GetByKey(ctx context.Context, key string) (*models.License, error) {
	if m.getByKeyFn != nil {
		return m.getByKeyFn(ctx, key)
	}
	return nil, nil
}

func (m *mockLicenseRepo) GetByUserID(ctx context.Context, userID int) ([]models.License, error) {
	if m.getByUserIDFn != nil {
		return m.getByUserIDFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockLicenseRepo) GetStale(ctx context.Context, olderThan time.Time, limit int) ([]models.License, error) {
	if m.getStaleFn != nil {
		return m.getStaleFn(ctx, olderThan, limit)
	}
	return nil, nil
}

func (m *mockLicenseRepo) Create(ctx context.Context, license *models.License) error {
	if m.createFn != nil {
		return m.createFn(ctx, license)
	}
	return nil
}

func (m *mockLicenseRepo) UpdateStatus(ctx context.Context, id int, status models.LicenseStatus, expiresAt *time.Time, verifiedAt time.Time) error {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, id, status, expiresAt, verifiedAt)
	}
	return nil
}

func (m *mockLicenseRepo) Reactivate(ctx context.Context, id int, instanceID string, expiresAt *time.Time, activatedAt time.Time) error {
	if m.reactivateFn != nil {
		return m.reactivateFn(ctx, id, instanceID, expiresAt, activatedAt)
	}
	return nil
}

type mockWebhookEventRepo struct {
	existsFn func(ctx context.Context, eventID string) (bool, error)
	recordFn func(ctx context.Context, eventID, eventName string) error
}

func (m *mockWebhookEventRepo) Exists(ctx context.Context, eventID string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, eventID)
	}
	return false, nil
}

func (m *mockWebhookEventRepo) Record(ctx context.Context, eventID, eventName string) error {
	if m.recordFn != nil {
		return m.recordFn(ctx, eventID, eventName)
	}
	return nil
}

type mockCurriculumRepo struct {
	importCourseFn func(ctx context.Context, course *models.Course, wb *models.CurriculumWorkbook, lessonSlugs []string, authorID int) error
}

func (m *mockCurriculumRepo) ImportCourse(ctx context.Context, course *models.Course, wb *models.CurriculumWorkbook, lessonSlugs []string, authorID int) error {
	if m.importCourseFn != nil {
		return m.importCourseFn(ctx, course, wb, lessonSlugs, authorID)
	}
	return nil
}

type mockNotifier struct {
	enqueueEnrollmentWelcomeFn func(ctx context.Context, userID, courseID int) error
	enqueueCertificateIssuedFn func(ctx context.Context, userID, courseID int) error
	enqueueLicenseActivatedFn  func(ctx context.Context, userID, licenseID int) error
}

func (m *mockNotifier) EnqueueEnrollmentWelcome(ctx context.Context, userID, courseID int) error {
	if m.enqueueEnrollmentWelcomeFn != nil {
		return m.enqueueEnrollmentWelcomeFn(ctx, userID, courseID)
	}
	return nil
}

func (m *mockNotifier) EnqueueCertificateIssued(ctx context.Context, userID, courseID int) error {
	if m.enqueueCertificateIssuedFn != nil {
		return m.enqueueCertificateIssuedFn(ctx, userID, courseID)
	}
	return nil
}

func (m *mockNotifier) EnqueueLicenseActivated(ctx context.Context, userID, licenseID int) error {
	if m.enqueueLicenseActivatedFn != nil {
		return m.enqueueLicenseActivatedFn(ctx, userID, licenseID)
	}
	return nil
}

type mockVideoHost struct {
	getVideoFn func(ctx context.Context, videoID string) (*models.VideoInfo, error)
}

func (m *mockVideoHost) GetVideo(ctx context.Context, videoID string) (*models.VideoInfo, error) {
	if m.getVideoFn != nil {
		return m.getVideoFn(ctx, videoID)
	}
	return nil, nil
}

type mockLicenseProvider struct {
	activateLicenseFn   func(ctx context.Context, key, instanceName string) (*models.LicenseCheck, error)
	validateLicenseFn   func(ctx context.Context, key, instanceID string) (*models.LicenseCheck, error)
	deactivateLicenseFn func(ctx context.Context, key, instanceID string) (*models.LicenseCheck, error)
}

func (m *mockLicenseProvider) ActivateLicense(ctx context.Context, key, instanceName string) (*models.LicenseCheck, error) {
	if m.activateLicenseFn != nil {
		return m.activateLicenseFn(ctx, key, instanceName)
	}
	return nil, nil
}

func (m *mockLicenseProvider) ValidateLicense(ctx context.Context, key, instanceID string) (*models.LicenseCheck, error) {
	if m.validateLicenseFn != nil {
		return m.validateLicenseFn(ctx, key, instanceID)
	}
	return nil, nil
}

func (m *mockLicenseProvider) DeactivateLicense(ctx context.Context, key, instanceID string) (*models.LicenseCheck, error) {
	if m.deactivateLicenseFn != nil {
		return m.deactivateLicenseFn(ctx, key, instanceID)
	}
	return nil, nil
}

type mockRewarder struct {
	awardXPFn        func(ctx context.Context, userID, amount int, reason models.XPReason, referenceID *int) error
	hasAwardFn       func(ctx context.Context, userID int, reason models.XPReason, referenceID int) (bool, error)
	recordActivityFn func(ctx context.Context, userID int, now time.Time) (*models.UserStreak, error)
}

func (m *mockRewarder) AwardXP(ctx context.Context, userID, amount int, reason models.XPReason, referenceID *int) error {
	if m.awardXPFn != nil {
		return m.awardXPFn(ctx, userID, amount, reason, referenceID)
	}
	return nil
}

func (m *mockRewarder) HasAward(ctx context.Context, userID int, reason models.XPReason, referenceID int) (bool, error) {
	if m.hasAwardFn != nil {
		return m.hasAwardFn(ctx, userID, reason, referenceID)
	}
	return false, nil
}

func (m *mockRewarder) RecordActivity(ctx context.Context, userID int, now time.Time) (*models.UserStreak, error) {
	if m.recordActivityFn != nil {
		return m.recordActivityFn(ctx, userID, now)
	}
	return nil, nil
}

type mockCertificateIssuer struct {
	issueFn func(ctx context.Context, userID, courseID int) (*models.Certificate, bool, error)
}

func (m *mockCertificateIssuer) Issue(ctx context.Context, userID, courseID int) (*models.Certificate, bool, error) {
	if m.issueFn != nil {
		return m.issueFn(ctx, userID, courseID)
	}
	return nil, false, nil
}

type mockEnrollmentUpserter struct {
	upsertEnrollmentFn func(ctx context.Context, enrollment *models.Enrollment) error
}

func (m *mockEnrollmentUpserter) UpsertEnrollment(ctx context.Context, enrollment *models.Enrollment) error {
	if m.upsertEnrollmentFn != nil {
		return m.upsertEnrollmentFn(ctx, enrollment)
	}
	return nil
}

type mockSigner struct{}

func (mockSigner) SignedPlaybackURL(videoID string, now time.Time) (string, time.Time) {
	return "https://cdn.test/" + videoID + "/playlist.m3u8?token=t", now.Add(time.Hour)
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func boolPtr(v bool) *bool { return &v }

func notFound(what string) error { return &notFoundError{what} }

type notFoundError struct{ what string }

func (e *notFoundError) Error() string { return e.what + " not found" }

func timePtr(v time.Time) *time.Time { return &v }
