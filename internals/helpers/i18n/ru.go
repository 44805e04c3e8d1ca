package i18n

// Russian
var ru = map[Key]string{
	CommonLoading:           "Загрузка...",
	CommonError:             "Ошибка",
	CommonSuccess:           "Успешно",
	CommonSave:              "Сохранить",
	CommonEdit:              "Редактировать",
	CommonDelete:            "Удалить",
	CommonDownload:          "Скачать",
	CommonSearch:            "Поиск",
	CommonBack:              "Назад",
	CommonCreate:            "Создать",
	CommonUpdate:            "Обновить",
	CommonLogin:             "Войти",
	CommonLogout:            "Выйти",
	CommonRegister:          "Регистрация",
	CommonTitle:             "Название",
	CommonDescription:       "Описание",
	CommonClass:             "Класс",
	CommonRole:              "Роль",
	CommonStudent:           "Ученик",
	CommonTeacher:           "Учитель",
	CommonAdmin:             "Администратор",
	CommonFiles:             "Файлы",
	CommonVideo:             "Видео",
	CommonImage:             "Изображение",
	CommonExternalLinks:     "Внешние ссылки",
	NavHome:                 "Главная",
	NavDashboard:            "Дашборд",
	NavLabs:                 "Лабораторные работы",
	NavSteam:                "STEAM материалы",
	NavTeachers:             "Материалы для учителей",
	NavStudents:             "Материалы для учеников",
	NavAdmin:                "Админ-панель",
	DashboardAllClasses:     "Все классы",
	DashboardMaterialsCount: "материалов",
	LabsTheory:              "Теория",
	LabsProcess:             "Процесс выполнения",
	LabsNotFound:            "Лабораторная работа не найдена",
	SteamNotFound:           "STEAM материал не найден",
	TeachersNotFound:        "Материал для учителей не найден",
	StudentsNotFound:        "Материал для учеников не найден",
	BackToDashboard:         "Вернуться к дашборду",
	FormLinkLimit:           "Максимум 10 внешних ссылок",
	FormLinkDuplicate:       "Такая ссылка уже добавлена",
	FormUploadsInFlight:     "Дождитесь завершения загрузки файлов",
	FormFileTooLarge:        "Файл слишком большой",
	FormFileTypeRejected:    "Недопустимый тип файла",
	FormUploadFailed:        "Ошибка загрузки файла",
	FormNotFound:            "Черновик формы не найден или устарел",
	ContentCreated:          "Материал успешно создан",
	ContentUpdated:          "Материал успешно обновлен",
	ContentDeleted:          "Материал удален",
	ContentSaveFailed:       "Не удалось сохранить материал",
	ContentDeleteConfirm:    "Вы уверены, что хотите удалить этот материал?",
	ValidationFailed:        "Проверьте правильность заполнения формы",
	AuthLoginTitle:          "Вход в систему",
	AuthInvalidCredentials:  "Неверный email или пароль",
	AuthUnauthorized:        "Требуется вход в систему",
	AuthForbidden:           "Недостаточно прав",
	AuthNoProfile:           "Профиль пользователя не найден",
	AuthEmailTaken:          "Пользователь с таким email уже существует",
	AuthRegistered:          "Регистрация прошла успешно",
	AuthLoggedOut:           "Вы вышли из системы",
	AuthPasswordsNotMatch:   "Пароли не совпадают",
	AuthPasswordMinLength:   "Пароль должен содержать минимум 6 символов",
	AuthSelectClass:         "Выберите класс для ученика",
	ServerError:             "Внутренняя ошибка сервера",
	TooManyRequests:         "Слишком много запросов, попробуйте позже",
	RequestInvalid:          "Некорректный запрос",
	AttachmentNotFound:      "Вложение не найдено",
	UploadRequired:          "Выберите файл для загрузки",
}
