package schema

import (
	"fmt"
	"strings"

	"biolab_backend/internals/helpers/i18n"
)

// Kind is one of the four content entity kinds.
type Kind string

const (
	KindLab     Kind = "lab"
	KindSteam   Kind = "steam"
	KindTeacher Kind = "teacher"
	KindStudent Kind = "student"
)

var Kinds = []Kind{KindLab, KindSteam, KindTeacher, KindStudent}

type kindInfo struct {
	table    string
	segment  string
	folder   string
	title    i18n.Key
	notFound i18n.Key
}

var kindInfos = map[Kind]kindInfo{
	KindLab:     {table: "labs", segment: "labs", folder: "labs", title: i18n.NavLabs, notFound: i18n.LabsNotFound},
	KindSteam:   {table: "steam", segment: "steam", folder: "steam", title: i18n.NavSteam, notFound: i18n.SteamNotFound},
	KindTeacher: {table: "teachers_materials", segment: "teachers", folder: "teachers", title: i18n.NavTeachers, notFound: i18n.TeachersNotFound},
	KindStudent: {table: "students_materials", segment: "students", folder: "students", title: i18n.NavStudents, notFound: i18n.StudentsNotFound},
}

// ParseKind accepts the kind itself, its URL segment or its table name.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, info := range kindInfos {
		if s == string(k) || s == info.segment || s == info.table {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown content kind %q", s)
}

func (k Kind) Valid() bool {
	_, ok := kindInfos[k]
	return ok
}

// Table is the backing Postgres table.
func (k Kind) Table() string { return kindInfos[k].table }

// Segment is the URL path segment (labs, steam, teachers, students).
func (k Kind) Segment() string { return kindInfos[k].segment }

// Folder is the storage folder prefix for uploads of this kind.
func (k Kind) Folder() string { return kindInfos[k].folder }

func (k Kind) TitleKey() i18n.Key    { return kindInfos[k].title }
func (k Kind) NotFoundKey() i18n.Key { return kindInfos[k].notFound }
