package logging

type Category string
type SubCategory string
type ExtraKey string

const (
	General         Category = "General"
	IO              Category = "IO"
	Internal        Category = "Internal"
	Validation      Category = "Validation"
	RequestResponse Category = "RequestResponse"
	Lobby           Category = "Lobby"
)

const (
	// General
	Startup         SubCategory = "Startup"
	Shutdown        SubCategory = "Shutdown"
	RateLimiting    SubCategory = "RateLimiting"
	ExternalService SubCategory = "ExternalService"

	// Lobby
	Transition SubCategory = "Transition"
	Refresh    SubCategory = "Refresh"
)

const (
	AppName      ExtraKey = "AppName"
	LoggerName   ExtraKey = "Logger"
	Method       ExtraKey = "Method"
	StatusCode   ExtraKey = "StatusCode"
	Path         ExtraKey = "Path"
	Latency      ExtraKey = "Latency"
	RequestID    ExtraKey = "RequestID"
	ErrorMessage ExtraKey = "ErrorMessage"
	Operation    ExtraKey = "Operation"
	RoomID       ExtraKey = "RoomID"
	FromState    ExtraKey = "FromState"
	ToState      ExtraKey = "ToState"
	BaseURL      ExtraKey = "BaseURL"
	ConfigPath   ExtraKey = "ConfigPath"
)
