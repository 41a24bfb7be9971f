package client

type Session struct {
	SessionToken string `json:"sessionToken"`
	UserName     string `json:"username"`
	Role         string `json:"role"`
}

type Profile struct {
	UserName string `json:"username"`
	Role     string `json:"role"`
}

// UploadGrant is a presigned PUT URL with the headers it was signed with.
type UploadGrant struct {
	UploadURL string            `json:"uploadURL"`
	Key       string            `json:"key"`
	Headers   map[string]string `json:"headers"`
	ExpiresAt string            `json:"expiresAt"`
}

type Inputs struct {
	Role      string `json:"role"`
	SubjectID string `json:"subjectId"`
	Range     string `json:"range,omitempty"`
	Note      string `json:"note,omitempty"`
}

type StoredInputs struct {
	Message  string `json:"message"`
	S3Bucket string `json:"s3Bucket"`
	S3Key    string `json:"s3Key"`
}

type credentials struct {
	UserName string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

type profileUpdate struct {
	UserName string `json:"username,omitempty"`
	Role     string `json:"role,omitempty"`
}

type inlineUpload struct {
	SubjectID   string `json:"subjectId"`
	FileName    string `json:"filename"`
	FileContent string `json:"fileContent"`
}

type storedFile struct {
	Key string `json:"key"`
}

type errorBody struct {
	Error string `json:"error"`
}
