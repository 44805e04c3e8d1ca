package i18n

// Key identifies one translatable message.
type Key string

const (
	CommonLoading           Key = "common.loading"
	CommonError             Key = "common.error"
	CommonSuccess           Key = "common.success"
	CommonSave              Key = "common.save"
	CommonEdit              Key = "common.edit"
	CommonDelete            Key = "common.delete"
	CommonDownload          Key = "common.download"
	CommonSearch            Key = "common.search"
	CommonBack              Key = "common.back"
	CommonCreate            Key = "common.create"
	CommonUpdate            Key = "common.update"
	CommonLogin             Key = "common.login"
	CommonLogout            Key = "common.logout"
	CommonRegister          Key = "common.register"
	CommonTitle             Key = "common.title"
	CommonDescription       Key = "common.description"
	CommonClass             Key = "common.class"
	CommonRole              Key = "common.role"
	CommonStudent           Key = "common.student"
	CommonTeacher           Key = "common.teacher"
	CommonAdmin             Key = "common.admin"
	CommonFiles             Key = "common.files"
	CommonVideo             Key = "common.video"
	CommonImage             Key = "common.image"
	CommonExternalLinks     Key = "common.external_links"
	NavHome                 Key = "nav.home"
	NavDashboard            Key = "nav.dashboard"
	NavLabs                 Key = "nav.labs"
	NavSteam                Key = "nav.steam"
	NavTeachers             Key = "nav.teachers"
	NavStudents             Key = "nav.students"
	NavAdmin                Key = "nav.admin"
	DashboardAllClasses     Key = "dashboard.all_classes"
	DashboardMaterialsCount Key = "dashboard.materials_count"
	LabsTheory              Key = "labs.theory"
	LabsProcess             Key = "labs.process"
	LabsNotFound            Key = "labs.not_found"
	SteamNotFound           Key = "steam.not_found"
	TeachersNotFound        Key = "teachers.not_found"
	StudentsNotFound        Key = "students.not_found"
	BackToDashboard         Key = "labs.back_to_dashboard"
	FormLinkLimit           Key = "form.link_limit"
	FormLinkDuplicate       Key = "form.link_duplicate"
	FormUploadsInFlight     Key = "form.uploads_in_flight"
	FormFileTooLarge        Key = "form.file_too_large"
	FormFileTypeRejected    Key = "form.file_type_rejected"
	FormUploadFailed        Key = "form.upload_failed"
	FormNotFound            Key = "form.not_found"
	ContentCreated          Key = "content.created"
	ContentUpdated          Key = "content.updated"
	ContentDeleted          Key = "content.deleted"
	ContentSaveFailed       Key = "content.save_failed"
	ContentDeleteConfirm    Key = "content.delete_confirm"
	ValidationFailed        Key = "validation.failed"
	AuthLoginTitle          Key = "auth.login.title"
	AuthInvalidCredentials  Key = "auth.invalid_credentials"
	AuthUnauthorized        Key = "auth.unauthorized"
	AuthForbidden           Key = "auth.forbidden"
	AuthNoProfile           Key = "auth.no_profile"
	AuthEmailTaken          Key = "auth.email_taken"
	AuthRegistered          Key = "auth.registered"
	AuthLoggedOut           Key = "auth.logged_out"
	AuthPasswordsNotMatch   Key = "auth.register.passwords_not_match"
	AuthPasswordMinLength   Key = "auth.register.password_min_length"
	AuthSelectClass         Key = "auth.register.select_class"
	ServerError             Key = "server.error"
	TooManyRequests         Key = "server.too_many_requests"
	RequestInvalid          Key = "request.invalid"
	AttachmentNotFound      Key = "form.attachment_not_found"
	UploadRequired          Key = "form.upload_required"
)

// AllKeys lists every Key. Both dictionaries must cover all of them.
var AllKeys = []Key{
	CommonLoading,
	CommonError,
	CommonSuccess,
	CommonSave,
	CommonEdit,
	CommonDelete,
	CommonDownload,
	CommonSearch,
	CommonBack,
	CommonCreate,
	CommonUpdate,
	CommonLogin,
	CommonLogout,
	CommonRegister,
	CommonTitle,
	CommonDescription,
	CommonClass,
	CommonRole,
	CommonStudent,
	CommonTeacher,
	CommonAdmin,
	CommonFiles,
	CommonVideo,
	CommonImage,
	CommonExternalLinks,
	NavHome,
	NavDashboard,
	NavLabs,
	NavSteam,
	NavTeachers,
	NavStudents,
	NavAdmin,
	DashboardAllClasses,
	DashboardMaterialsCount,
	LabsTheory,
	LabsProcess,
	LabsNotFound,
	SteamNotFound,
	TeachersNotFound,
	StudentsNotFound,
	BackToDashboard,
	FormLinkLimit,
	FormLinkDuplicate,
	FormUploadsInFlight,
	FormFileTooLarge,
	FormFileTypeRejected,
	FormUploadFailed,
	FormNotFound,
	ContentCreated,
	ContentUpdated,
	ContentDeleted,
	ContentSaveFailed,
	ContentDeleteConfirm,
	ValidationFailed,
	AuthLoginTitle,
	AuthInvalidCredentials,
	AuthUnauthorized,
	AuthForbidden,
	AuthNoProfile,
	AuthEmailTaken,
	AuthRegistered,
	AuthLoggedOut,
	AuthPasswordsNotMatch,
	AuthPasswordMinLength,
	AuthSelectClass,
	ServerError,
	TooManyRequests,
	RequestInvalid,
	AttachmentNotFound,
	UploadRequired,
}
