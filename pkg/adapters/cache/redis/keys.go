package redis

const (
	// KeyPrefixPage holds a profile's serialized public page
	KeyPrefixPage = "folio:page:"
	// KeyPrefixUsername maps a username to its profile id
	KeyPrefixUsername = "folio:username:"
)

func PageKey(profileID string) string {
	return KeyPrefixPage + profileID
}

func UsernameKey(username string) string {
	return KeyPrefixUsername + username
}
