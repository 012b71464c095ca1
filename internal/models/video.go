package models

// VideoInfo describes a video stored at the video host
type VideoInfo struct {
	GUID              string `json:"guid"`
	Title             string `json:"title"`
	LengthSeconds     int    `json:"length"`
	Status            int    `json:"status"`
	ThumbnailFileName string `json:"thumbnailFileName"`
}
