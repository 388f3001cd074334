package domain

type ReadyQuestion struct {
	Label string `json:"label"`
	Query string `json:"query"`
}

// WidgetSettings drives the embedded widget's appearance and behavior. It is
// stored as one JSON document per client.
type WidgetSettings struct {
	PrimaryColor    string            `json:"primaryColor"`
	BackgroundColor string            `json:"backgroundColor"`
	TextColor       string            `json:"textColor"`
	LogoURL         string            `json:"logoUrl"`
	Font            string            `json:"font"`
	FontSize        string            `json:"fontSize"`
	Position        string            `json:"position"`
	IsCollapsed     bool              `json:"isCollapsed"`
	WelcomeMessage  string            `json:"welcomeMessage"`
	ReadyQuestions  []ReadyQuestion   `json:"readyQuestions"`
	ShowClearChat   bool              `json:"showClearChat"`
	ShowAddToCart   bool              `json:"showAddToCart"`
	DefaultWidth    int               `json:"defaultWidth"`
	DefaultHeight   int               `json:"defaultHeight"`
	Title           string            `json:"title"`
	EnableLiveChat  bool              `json:"enableLiveChat"`
	LiveChatHours   map[string]string `json:"liveChatHours"`
}

func DefaultWidgetSettings() WidgetSettings {
	return WidgetSettings{
		PrimaryColor:    "#3b82f6",
		BackgroundColor: "#ffffff",
		TextColor:       "#000000",
		LogoURL:         "/img/logo/logo.jpg",
		Font:            "Arial",
		FontSize:        "16px",
		Position:        "bottom-right",
		IsCollapsed:     true,
		WelcomeMessage:  "Welcome to our support chat!",
		ReadyQuestions: []ReadyQuestion{
			{Label: "Cheapest headphones", Query: "cheapest headphones"},
			{Label: "Order status", Query: "order status"},
		},
		ShowClearChat:  true,
		ShowAddToCart:  true,
		DefaultWidth:   400,
		DefaultHeight:  500,
		Title:          "Zipper Bot",
		EnableLiveChat: true,
		LiveChatHours:  map[string]string{"start": "09:00", "end": "17:00", "timezone": "UTC"},
	}
}
