package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/darynakulchii/StudentHousing-sub000/internal/client"
	ws "github.com/darynakulchii/StudentHousing-sub000/internal/websocket"
)

func main() {
	baseURL := flag.String("api", "http://localhost:3000", "адреса API")
	wsURL := flag.String("ws", "ws://localhost:3001/ws", "адреса WebSocket")
	flag.Parse()

	store, err := client.NewFileTokenStore()
	if err != nil {
		log.Fatalf("❌ Помилка сховища токена: %v", err)
	}

	session := client.NewSession(store)
	api := client.NewAPI(*baseURL, session)

	switch flag.Arg(0) {
	case "login":
		runLogin(api)
	case "listings":
		runListings(api)
	case "chat":
		runChat(api, session, *wsURL)
	default:
		fmt.Println("Команди: login, listings, chat")
		os.Exit(1)
	}
}

// runLogin читає облікові дані з терміналу та виконує вхід
func runLogin(api *client.API) {
	reader := bufio.NewReader(os.Stdin)

	fmt.Print("Email: ")
	email, _ := reader.ReadString('\n')
	fmt.Print("Пароль: ")
	password, _ := reader.ReadString('\n')

	res := api.Login(strings.TrimSpace(email), strings.TrimSpace(password))
	if !res.OK() {
		log.Fatalf("❌ Помилка входу: %v", res.Failure)
	}

	fmt.Printf("✅ Вхід виконано: %s %s\n", res.Value.User.FirstName, res.Value.User.LastName)
}

// runListings показує публічні оголошення
func runListings(api *client.API) {
	res := api.PublicListings("")
	if !res.OK() {
		log.Fatalf("❌ Помилка завантаження оголошень: %v", res.Failure)
	}

	if len(res.Value.Listings) == 0 {
		fmt.Println("Оголошень не знайдено")
		return
	}

	for _, listing := range res.Value.Listings {
		fmt.Printf("[%s] %s — %d грн/міс, %s\n",
			client.ListingTypeLabel(listing.Type), listing.Title, listing.Price, listing.City)
	}
	fmt.Printf("Всього: %d\n", res.Value.Total)
}

// runChat показує розмови та слухає нові повідомлення
func runChat(api *client.API, session *client.Session, wsURL string) {
	userID, ok := session.Resolve()
	if !ok {
		log.Fatal("❌ Спочатку виконайте вхід: housing login")
	}

	res := api.Conversations()
	if !res.OK() {
		log.Fatalf("❌ Помилка завантаження розмов: %v", res.Failure)
	}

	conversationIDs := make([]string, 0, len(res.Value.Conversations))
	for _, conv := range res.Value.Conversations {
		conversationIDs = append(conversationIDs, conv.ID.String())
		fmt.Println(client.RenderConversationItem(conv, userID))
	}

	state := &client.ChatState{CurrentUserID: userID}
	dispatcher := &client.MessageDispatcher{
		State: state,
		ReloadConversations: func() {
			log.Println("Нове повідомлення, оновіть список розмов")
		},
	}

	channel := client.NewChannel(wsURL, session)
	channel.OnEvent(func(event ws.Event) {
		switch event.Type {
		case ws.EventReceiveMessage:
			dispatcher.HandleReceiveMessage(event)
		case ws.EventNewNotification:
			log.Println("🔔 Нове сповіщення")
		}
	})

	if err := channel.Connect(conversationIDs); err != nil {
		log.Fatalf("❌ Помилка WebSocket з'єднання: %v", err)
	}
	defer channel.Close()

	fmt.Println("Слухаємо нові повідомлення, Ctrl+C для виходу")
	select {}
}
