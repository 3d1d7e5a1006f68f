package responses

type DatasetDownload struct {
	Name    string `json:"name"`
	Path    string `json:"path"`
	Skipped bool   `json:"skipped"`
}

type EntryDownload struct {
	Team    string `json:"team"`
	Path    string `json:"path"`
	Bytes   int64  `json:"bytes"`
	Skipped bool   `json:"skipped"`
}

type UnpackedModel struct {
	CheckpointsDir string `json:"checkpoints_dir"`
	ConfigDir      string `json:"config_dir"`
	ConfigCopied   bool   `json:"config_copied"`
}
