// version.go
package version

import "fmt"

// AppName holds the name of the SDK, sent as the User-Agent product token.
var AppName = "identity-sdk-go"

// Version holds the current version of the SDK
var Version = "0.1.0"

// GetAppName returns the name of the application
func GetAppName() string {
	return AppName
}

// GetVersion returns the current version of the application
func GetVersion() string {
	return Version
}

// GetUserAgentHeader returns the User-Agent sent on every identity API call.
func GetUserAgentHeader() string {
	return fmt.Sprintf("%s/%s", AppName, Version)
}
