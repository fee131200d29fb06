package auth

// MockService is a mock implementation of AuthService for testing.
type MockService struct {
	RegisterFunc      func(username, password string) (*Session, error)
	LoginFunc         func(username, password string) (*Session, error)
	ValidateTokenFunc func(token string) (*Session, error)
	LogoutFunc        func(token string)
}

// NewMock creates a new mock auth service.
func NewMock() *MockService {
	return &MockService{}
}

func (m *MockService) Register(username, password string) (*Session, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(username, password)
	}
	return &Session{Token: "mock-token", Username: username}, nil
}

func (m *MockService) Login(username, password string) (*Session, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(username, password)
	}
	return &Session{Token: "mock-token", Username: username}, nil
}

func (m *MockService) ValidateToken(token string) (*Session, error) {
	if m.ValidateTokenFunc != nil {
		return m.ValidateTokenFunc(token)
	}
	return &Session{Token: token, Username: "mock-user"}, nil
}

func (m *MockService) Logout(token string) {
	if m.LogoutFunc != nil {
		m.LogoutFunc(token)
	}
}
