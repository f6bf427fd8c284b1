package definitions

type ConnectionType string

const (
	USB    ConnectionType = "usb"
	Remote ConnectionType = "remote"
)

type DeviceInfo struct {
	DeviceID       string         `json:"device_id"`
	Status         string         `json:"status"`
	ConnectionType ConnectionType `json:"connection_type"`
	Model          string         `json:"model,omitempty"`
}

// Bounds is a view rectangle in screen pixels, right and bottom exclusive.
type Bounds struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
}

func (b Bounds) Width() int  { return b.Right - b.Left }
func (b Bounds) Height() int { return b.Bottom - b.Top }

func (b Bounds) CenterX() int { return b.Left + b.Width()/2 }

func (b Bounds) Empty() bool { return b.Width() <= 0 || b.Height() <= 0 }

// Node is one view in a dumped window hierarchy.
type Node struct {
	ResourceID  string  `json:"resource_id,omitempty"`
	ClassName   string  `json:"class_name,omitempty"`
	PackageName string  `json:"package_name,omitempty"`
	Text        string  `json:"text,omitempty"`
	Scrollable  bool    `json:"scrollable"`
	Bounds      Bounds  `json:"bounds"`
	Children    []*Node `json:"children,omitempty"`
}
