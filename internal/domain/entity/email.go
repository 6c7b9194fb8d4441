package entity

// EmailItem represents one unread inbox message reduced to the fields the
// digest needs. Date keeps the provider-formatted string as received.
type EmailItem struct {
	Sender  string
	Subject string
	Date    string
	Snippet string
}
