package models

// BucketListItem is one entry in a user's bucket list, embedded in the
// user document the way the mobile client stores it.
type BucketListItem struct {
	ID        string   `json:"id" bson:"id"`
	Name      string   `json:"name" bson:"name"`
	Privacy   string   `json:"privacy" bson:"privacy"`
	Completed bool     `json:"completed" bson:"completed"`
	Images    []string `json:"images" bson:"images"`
}

type User struct {
	ID               string           `json:"id" bson:"_id,omitempty"`
	Username         string           `json:"username" bson:"username"`
	PasswordHash     string           `json:"-" bson:"password_hash"`
	Bio              string           `json:"bio" bson:"bio"`
	Location         string           `json:"location" bson:"location"`
	ProfilePicture   string           `json:"profile_picture" bson:"profile_picture"`
	Friends          []string         `json:"friends" bson:"friends"`
	IncomingRequests []string         `json:"incoming_requests" bson:"incoming_requests"`
	OutgoingRequests []string         `json:"outgoing_requests" bson:"outgoing_requests"`
	BucketListItems  []BucketListItem `json:"bucket_list_items" bson:"bucket_list_items"`
	Posts            []string         `json:"posts" bson:"posts"`
}

// HasFriend reports whether id is in the user's friends list.
func (u *User) HasFriend(id string) bool {
	for _, f := range u.Friends {
		if f == id {
			return true
		}
	}
	return false
}

// HasIncomingRequest reports whether id has a pending request to this user.
func (u *User) HasIncomingRequest(id string) bool {
	for _, r := range u.IncomingRequests {
		if r == id {
			return true
		}
	}
	return false
}

// HasOutgoingRequest reports whether this user has a pending request to id.
func (u *User) HasOutgoingRequest(id string) bool {
	for _, r := range u.OutgoingRequests {
		if r == id {
			return true
		}
	}
	return false
}
