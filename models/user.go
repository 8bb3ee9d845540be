package models

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/vyaparlabs/gstbooks_backend/config"
	"github.com/vyaparlabs/gstbooks_backend/utils"
)

type User struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Username  string    `gorm:"size:100;not null;unique" json:"username" binding:"required"`
	Name      string    `gorm:"size:100;not null" json:"name" binding:"required"`
	Email     *string   `gorm:"size:100;unique" json:"email"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	Role      UserRole  `gorm:"type:enum('A', 'S');default:S" json:"role"`
	IsActive  *bool     `gorm:"not null" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewUser struct {
	Username string `json:"username" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginInfo struct {
	Token string `json:"token"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

/*
caches:
	User:$username
	Reset:$token
*/

func (user User) RemoveInstanceRedis() error {
	return config.RemoveRedisKey("User:" + user.Username)
}

// RegisterUser creates an account. The first account becomes the admin.
func RegisterUser(ctx context.Context, input *NewUser) (*User, error) {
	if err := utils.ValidateUnique[User](ctx, "username", input.Username, 0); err != nil {
		return nil, err
	}
	if input.Email != "" {
		if err := utils.ValidateUnique[User](ctx, "email", input.Email, 0); err != nil {
			return nil, err
		}
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	var count int64
	if err := db.WithContext(ctx).Model(&User{}).Count(&count).Error; err != nil {
		return nil, err
	}
	role := UserRoleStaff
	if count == 0 {
		role = UserRoleAdmin
	}

	user := User{
		Username: input.Username,
		Name:     input.Name,
		Password: string(hashed),
		Role:     role,
		IsActive: utils.Ptr(true),
	}
	if input.Email != "" {
		user.Email = &input.Email
	}
	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func Login(ctx context.Context, username string, password string) (*LoginInfo, error) {
	db := config.GetDB()

	user := User{}
	exists, err := config.GetRedisObject("User:"+username, &user)
	if err != nil {
		return nil, err
	}
	if !exists {
		err = db.WithContext(ctx).Model(&User{}).Where("username = ?", username).Take(&user).Error
		if err != nil {
			return nil, errors.New("invalid username or password")
		}
	}

	if err := utils.ComparePassword(user.Password, password); err != nil {
		return nil, errors.New("invalid username or password")
	}

	if user.IsActive == nil || !*user.IsActive {
		return nil, errors.New("user is disabled")
	}

	token, err := utils.JwtGenerate(user.ID, string(user.Role))
	if err != nil {
		return nil, err
	}

	if err := config.SetRedisObject("User:"+username, &user, 24*time.Hour); err != nil {
		return nil, err
	}

	return &LoginInfo{
		Token: token,
		Name:  user.Name,
		Role:  string(user.Role),
	}, nil
}

// ForgotPassword issues a short-lived reset token. The token is returned to
// the caller; mail delivery is out of scope for the API layer.
func ForgotPassword(ctx context.Context, username string) (string, error) {
	db := config.GetDB()
	var user User
	if err := db.WithContext(ctx).Model(&User{}).Where("username = ?", username).Take(&user).Error; err != nil {
		return "", utils.ErrorRecordNotFound
	}

	token := uuid.NewString()
	if err := config.SetRedisValue("Reset:"+token, user.Username, 15*time.Minute); err != nil {
		return "", err
	}
	return token, nil
}

func ResetPassword(ctx context.Context, token string, newPassword string) error {
	if len(newPassword) < 8 {
		return errors.New("password must be at least 8 characters")
	}

	username, exists, err := config.GetRedisValue("Reset:" + token)
	if err != nil {
		return err
	}
	if !exists {
		return errors.New("invalid or expired reset token")
	}

	hashed, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}

	db := config.GetDB()
	result := db.WithContext(ctx).Model(&User{}).Where("username = ?", username).
		Update("password", string(hashed))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return utils.ErrorRecordNotFound
	}

	if err := config.RemoveRedisKey("Reset:"+token, "User:"+username); err != nil {
		return err
	}
	return nil
}

func GetUserById(ctx context.Context, id int) (*User, error) {
	return utils.FetchModel[User](ctx, id)
}
