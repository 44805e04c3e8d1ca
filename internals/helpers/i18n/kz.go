package i18n

// Kazakh
var kz = map[Key]string{
	CommonLoading:           "Жүктелуде...",
	CommonError:             "Қате",
	CommonSuccess:           "Сәтті",
	CommonSave:              "Сақтау",
	CommonEdit:              "Өңдеу",
	CommonDelete:            "Жою",
	CommonDownload:          "Жүктеу",
	CommonSearch:            "Іздеу",
	CommonBack:              "Артқа",
	CommonCreate:            "Жасау",
	CommonUpdate:            "Жаңарту",
	CommonLogin:             "Кіру",
	CommonLogout:            "Шығу",
	CommonRegister:          "Тіркелу",
	CommonTitle:             "Тақырып",
	CommonDescription:       "Сипаттама",
	CommonClass:             "Сынып",
	CommonRole:              "Рөл",
	CommonStudent:           "Оқушы",
	CommonTeacher:           "Мұғалім",
	CommonAdmin:             "Әкімші",
	CommonFiles:             "Файлдар",
	CommonVideo:             "Бейне",
	CommonImage:             "Сурет",
	CommonExternalLinks:     "Сыртқы сілтемелер",
	NavHome:                 "Басты бет",
	NavDashboard:            "Басқару панелі",
	NavLabs:                 "Зертханалық жұмыстар",
	NavSteam:                "STEAM материалдары",
	NavTeachers:             "Мұғалімдерге арналған материалдар",
	NavStudents:             "Оқушыларға арналған материалдар",
	NavAdmin:                "Әкімші панелі",
	DashboardAllClasses:     "Барлық сыныптар",
	DashboardMaterialsCount: "материал",
	LabsTheory:              "Теория",
	LabsProcess:             "Орындау процесі",
	LabsNotFound:            "Зертханалық жұмыс табылмады",
	SteamNotFound:           "STEAM материалы табылмады",
	TeachersNotFound:        "Мұғалімдерге арналған материал табылмады",
	StudentsNotFound:        "Оқушыларға арналған материал табылмады",
	BackToDashboard:         "Басқару панеліне оралу",
	FormLinkLimit:           "Ең көбі 10 сыртқы сілтеме",
	FormLinkDuplicate:       "Бұл сілтеме бұрын қосылған",
	FormUploadsInFlight:     "Файлдардың жүктелуін күтіңіз",
	FormFileTooLarge:        "Файл тым үлкен",
	FormFileTypeRejected:    "Файл түріне рұқсат жоқ",
	FormUploadFailed:        "Файлды жүктеу қатесі",
	FormNotFound:            "Форма жобасы табылмады немесе ескірді",
	ContentCreated:          "Материал сәтті жасалды",
	ContentUpdated:          "Материал сәтті жаңартылды",
	ContentDeleted:          "Материал жойылды",
	ContentSaveFailed:       "Материалды сақтау мүмкін болмады",
	ContentDeleteConfirm:    "Бұл материалды жойғыңыз келе ме?",
	ValidationFailed:        "Форманың дұрыс толтырылғанын тексеріңіз",
	AuthLoginTitle:          "Жүйеге кіру",
	AuthInvalidCredentials:  "Email немесе құпия сөз қате",
	AuthUnauthorized:        "Жүйеге кіру қажет",
	AuthForbidden:           "Құқық жеткіліксіз",
	AuthNoProfile:           "Пайдаланушы профилі табылмады",
	AuthEmailTaken:          "Бұл email-мен пайдаланушы бар",
	AuthRegistered:          "Тіркелу сәтті өтті",
	AuthLoggedOut:           "Сіз жүйеден шықтыңыз",
	AuthPasswordsNotMatch:   "Құпия сөздер сәйкес келмейді",
	AuthPasswordMinLength:   "Құпия сөз кемінде 6 таңбадан тұруы керек",
	AuthSelectClass:         "Оқушы үшін сыныпты таңдаңыз",
	ServerError:             "Сервердің ішкі қатесі",
	TooManyRequests:         "Сұраныс тым көп, кейінірек қайталаңыз",
	RequestInvalid:          "Сұраныс дұрыс емес",
	AttachmentNotFound:      "Тіркеме табылмады",
	UploadRequired:          "Жүктеу үшін файлды таңдаңыз",
}
