package models

// DiagnosisResult is the normalized crop-doctor report.
type DiagnosisResult struct {
	Disease    string   `json:"disease"`
	Confidence int      `json:"confidence"`
	Treatment  []string `json:"treatment"`
}

type DiagnoseRequest struct {
	Image string `json:"image"` // base64, optionally a data: URL
}

type DiagnoseResponse struct {
	Error string `json:"error,omitempty"`
	DiagnosisResult
}
