package protocol

// KindFolder is the attachment kind used when an entry reports no media type.
// Browsers and folder pickers leave the type blank for directories, so the
// blank case is treated as a folder.
const KindFolder = "folder"

// RawEntry is one item of an uploaded batch as received at the input
// boundary. MediaType may be empty.
type RawEntry struct {
	Name      string `json:"name"`
	MediaType string `json:"media_type,omitempty"`
}

// Attachment is one uploaded file or folder belonging to a Message.
type Attachment struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

// NewAttachment converts a raw entry into an Attachment. Any name is
// accepted; an empty media type falls back to KindFolder.
func NewAttachment(entry RawEntry) Attachment {
	kind := entry.MediaType
	if kind == "" {
		kind = KindFolder
	}
	return Attachment{Name: entry.Name, Kind: kind}
}
