package domain

import "time"

// Typed records produced by the vendor response parsers. All of them
// are pure values, never mutated after creation. Optional fields use
// pointers where "absent" and "present but empty" must stay apart.

type PrintableLabel struct {
	Code      string `json:"code"`
	Barcode   string `json:"barcode,omitempty"`
	Material  string `json:"material,omitempty"`
	Recipient string `json:"recipient,omitempty"`
	Copies    int    `json:"copies,omitempty"`
	Content   string `json:"content,omitempty"`
}

type OrderConfirmation struct {
	OrderCode    string           `json:"orderCode"`
	ProtocolCode string           `json:"protocolCode,omitempty"`
	Accepted     bool             `json:"accepted"`
	Labels       []PrintableLabel `json:"labels,omitempty"`
	Messages     []string         `json:"messages,omitempty"`
}

type ResultItem struct {
	ExamCode       string     `json:"examCode"`
	ExamName       string     `json:"examName,omitempty"`
	Analyte        string     `json:"analyte,omitempty"`
	Value          string     `json:"value"`
	Unit           string     `json:"unit,omitempty"`
	ReferenceRange string     `json:"referenceRange,omitempty"`
	Abnormal       bool       `json:"abnormal,omitempty"`
	ReleasedAt     *time.Time `json:"releasedAt,omitempty"`
}

type LabResult struct {
	OrderCode   string       `json:"orderCode"`
	PatientName string       `json:"patientName,omitempty"`
	Status      string       `json:"status,omitempty"`
	Partial     bool         `json:"partial,omitempty"`
	Items       []ResultItem `json:"items,omitempty"`
	ReportURL   string       `json:"reportUrl,omitempty"`
}

type ExamStatusEntry struct {
	ExamCode string `json:"examCode"`
	Status   string `json:"status"`
	Detail   string `json:"detail,omitempty"`
}

type StatusReport struct {
	OrderCode string            `json:"orderCode"`
	Stage     string            `json:"stage,omitempty"`
	Exams     []ExamStatusEntry `json:"exams,omitempty"`
	UpdatedAt *time.Time        `json:"updatedAt,omitempty"`
}

type PendingIssue struct {
	OrderCode string     `json:"orderCode"`
	ExamCode  string     `json:"examCode,omitempty"`
	Reason    string     `json:"reason"`
	Detail    string     `json:"detail,omitempty"`
	RaisedAt  *time.Time `json:"raisedAt,omitempty"`
}

type TraceEvent struct {
	OrderCode  string     `json:"orderCode"`
	ExamCode   string     `json:"examCode,omitempty"`
	Stage      string     `json:"stage"`
	Location   string     `json:"location,omitempty"`
	Operator   string     `json:"operator,omitempty"`
	OccurredAt *time.Time `json:"occurredAt,omitempty"`
}

type ExamConfig struct {
	Code            string `json:"code"`
	Name            string `json:"name"`
	Material        string `json:"material,omitempty"`
	Method          string `json:"method,omitempty"`
	DeadlineDays    int    `json:"deadlineDays,omitempty"`
	RequiresFasting bool   `json:"requiresFasting,omitempty"`
	Instructions    string `json:"instructions,omitempty"`
}

type ExamInfo struct {
	ExamConfig
	Synonyms     []string `json:"synonyms,omitempty"`
	Preparations []string `json:"preparations,omitempty"`
}

// Report is a fetched document: either a rendered PDF report for an
// order or the layout mask for an exam.
type Report struct {
	OrderCode string `json:"orderCode,omitempty"`
	ExamCode  string `json:"examCode,omitempty"`
	MimeType  string `json:"mimeType"`
	FileName  string `json:"fileName,omitempty"`
	Content   []byte `json:"content"`
}

// Operation inputs the CRUD layer hands to the gateway.

type ExamRequest struct {
	Code     string `json:"code" binding:"required"`
	Material string `json:"material,omitempty"`
}

type OrderSubmission struct {
	OrderCode       string        `json:"orderCode" binding:"required"`
	PatientName     string        `json:"patientName" binding:"required"`
	PatientDocument string        `json:"patientDocument,omitempty"`
	BirthDate       string        `json:"birthDate,omitempty"`
	Sex             string        `json:"sex,omitempty"`
	Exams           []ExamRequest `json:"exams" binding:"required,min=1"`
	Notes           string        `json:"notes,omitempty"`
}

type ExamCancellation struct {
	OrderCode string `json:"orderCode" binding:"required"`
	ExamCode  string `json:"examCode" binding:"required"`
	Reason    string `json:"reason,omitempty"`
}

type RecollectionRequest struct {
	OrderCode string `json:"orderCode" binding:"required"`
	ExamCode  string `json:"examCode" binding:"required"`
	Reason    string `json:"reason,omitempty"`
}

type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}
