package dto

import "bat-monitor-be/pkg/remotestore"

type FoldersResponse struct {
	Success      bool                    `json:"success"`
	TotalFolders int                     `json:"total_folders"`
	Folders      []remotestore.Container `json:"folders"`
}

type ItemsResponse struct {
	Success    bool               `json:"success"`
	TotalItems int                `json:"total_items"`
	Items      []remotestore.Item `json:"items"`
}

type DownloadedFile struct {
	OriginalName string `json:"original_name"`
	LocalPath    string `json:"local_path"`
	FileID       string `json:"file_id"`
}

type DownloadResponse struct {
	Success         bool             `json:"success"`
	FolderName      string           `json:"folder_name"`
	TotalFiles      int              `json:"total_files"`
	DownloadedFiles []DownloadedFile `json:"downloaded_files"`
	LocalFolder     string           `json:"local_folder"`
}

type UploadSensorResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	FileID   string `json:"file_id"`
	FolderID string `json:"folder_id"`
}
