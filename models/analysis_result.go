package models

// AnalysisResult is the payload produced by the video analysis service.
// serial_no and video_url are fixed by the producer.
type AnalysisResult struct {
	SerialNo string  `json:"serial_no"`
	Result   string  `json:"result"`
	Plate    string  `json:"plate"`
	Location string  `json:"location"`
	Time     string  `json:"time"`
	VideoURL string  `json:"video_url"`
	Prob     float64 `json:"prob"`
}
