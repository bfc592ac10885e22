package models

// ClassRoom is a kindergarten class. The optional names and NIPs fill the report signature blocks.
type ClassRoom struct {
	ID             string  `db:"id" json:"id"`
	Name           string  `db:"name" json:"name"`
	TeacherName    *string `db:"teacherName" json:"teacherName,omitempty"`
	TeacherNIP     *string `db:"teacherNip" json:"teacherNip,omitempty"`
	HeadmasterName *string `db:"headmasterName" json:"headmasterName,omitempty"`
	HeadmasterNIP  *string `db:"headmasterNip" json:"headmasterNip,omitempty"`
}

// ClassPatch carries the fields of an update; nil fields are left untouched.
type ClassPatch struct {
	Name           *string `json:"name" validate:"omitempty,notblank"`
	TeacherName    *string `json:"teacherName"`
	TeacherNIP     *string `json:"teacherNip"`
	HeadmasterName *string `json:"headmasterName"`
	HeadmasterNIP  *string `json:"headmasterNip"`
}

// Empty reports whether the patch changes nothing.
func (p ClassPatch) Empty() bool {
	return p.Name == nil && p.TeacherName == nil && p.TeacherNIP == nil && p.HeadmasterName == nil && p.HeadmasterNIP == nil
}

// Apply returns a copy of c with the patch applied.
func (p ClassPatch) Apply(c ClassRoom) ClassRoom {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.TeacherName != nil {
		c.TeacherName = p.TeacherName
	}
	if p.TeacherNIP != nil {
		c.TeacherNIP = p.TeacherNIP
	}
	if p.HeadmasterName != nil {
		c.HeadmasterName = p.HeadmasterName
	}
	if p.HeadmasterNIP != nil {
		c.HeadmasterNIP = p.HeadmasterNIP
	}
	return c
}
