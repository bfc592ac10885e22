package models

// Student belongs to a class through a weak ClassID reference; the class may no longer exist.
type Student struct {
	ID      string `db:"id" json:"id"`
	NIS     string `db:"nis" json:"nis"`
	Name    string `db:"name" json:"name"`
	ClassID string `db:"classId" json:"classId"`
}

// StudentView is a student with the resolved class name, empty for orphans.
type StudentView struct {
	Student
	ClassName string `json:"className"`
}

// StudentPatch carries the fields of an update; nil fields are left untouched.
type StudentPatch struct {
	NIS     *string `json:"nis" validate:"omitempty,notblank"`
	Name    *string `json:"name" validate:"omitempty,notblank"`
	ClassID *string `json:"classId" validate:"omitempty,notblank"`
}

func (p StudentPatch) Empty() bool {
	return p.NIS == nil && p.Name == nil && p.ClassID == nil
}

// Apply returns a copy of s with the patch applied.
func (p StudentPatch) Apply(s Student) Student {
	if p.NIS != nil {
		s.NIS = *p.NIS
	}
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.ClassID != nil {
		s.ClassID = *p.ClassID
	}
	return s
}
