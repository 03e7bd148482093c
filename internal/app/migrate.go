package app

import (
	"fmt"

	"gorm.io/gorm"

	"artnexus/internal/domain/auth"
	"artnexus/internal/domain/catalog"
	"artnexus/internal/domain/chat"
	"artnexus/internal/domain/collaboration"
	"artnexus/internal/domain/notification"
	"artnexus/internal/domain/purchase"
	"artnexus/internal/domain/wallet"
)

// Models lists every persisted type in dependency order.
func Models() []interface{} {
	return []interface{}{
		&auth.User{},
		&auth.ArtisteProfile{},
		&wallet.Wallet{},
		&wallet.Transaction{},
		&catalog.Country{},
		&catalog.ArtType{},
		&catalog.Art{},
		&purchase.Purchase{},
		&collaboration.Collaboration{},
		&collaboration.Member{},
		&chat.Thread{},
		&chat.Participant{},
		&chat.Message{},
		&notification.Notification{},
	}
}

func Migrate(db *gorm.DB) error {
	for _, m := range Models() {
		if err := db.AutoMigrate(m); err != nil {
			return fmt.Errorf("migrate %T: %w", m, err)
		}
	}
	return nil
}
