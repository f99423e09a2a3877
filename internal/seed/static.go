// ABOUTME: Static fallback data when OpenAI API key is not available.
// ABOUTME: Provides a small company blog with authors, editors and posts.

package seed

import "fmt"

// generateStatic creates static fallback data.
func generateStatic(numUsers, numPosts int) *GeneratedData {
	users := generateStaticUsers(numUsers)
	return &GeneratedData{
		Users: users,
		Posts: generateStaticPosts(numPosts, users),
	}
}

func generateStaticUsers(count int) []UserData {
	templates := []UserData{
		{Name: "Alice Chen", Email: "alice.chen@example.com", Role: "admin", Active: true},
		{Name: "Bob Martinez", Email: "bob.martinez@example.com", Role: "editor", Active: true},
		{Name: "Sarah Johnson", Email: "sarah.johnson@example.com", Role: "author", Active: true},
		{Name: "Dave Wilson", Email: "dave.wilson@example.com", Role: "author", Active: true},
		{Name: "Emma Davis", Email: "emma.davis@example.org", Role: "reader", Active: true},
		{Name: "Peter Zhang", Email: "peter.zhang@example.org", Role: "author", Active: false},
		{Name: "Jenna Taylor", Email: "jenna.taylor@example.com", Role: "editor", Active: true},
		{Name: "Mike Brown", Email: "mike.brown@example.com", Role: "reader", Active: true},
		{Name: "Chris Lee", Email: "chris.lee@example.com", Role: "author", Active: true},
		{Name: "Alex Rivera", Email: "alex.rivera@example.org", Role: "reader", Active: false},
		{Name: "Jane Kim", Email: "jane.kim@example.com", Role: "author", Active: true},
		{Name: "Lisa Park", Email: "lisa.park@example.org", Role: "reader", Active: true},
	}

	result := make([]UserData, count)
	for i := 0; i < count; i++ {
		u := templates[i%len(templates)]
		if i >= len(templates) {
			// Add suffix to make unique
			u.Name = fmt.Sprintf("%s %d", u.Name, i/len(templates)+1)
			u.Email = fmt.Sprintf("user%d@example.com", i)
		}
		result[i] = u
	}
	return result
}

func generateStaticPosts(count int, authors []UserData) []PostData {
	templates := []PostData{
		{Title: "Introducing our new dashboard", Body: "We rebuilt the dashboard from the ground up. It loads twice as fast and finally works on phones. Let us know what you think.", Status: "published"},
		{Title: "How we moved to SQLite", Body: "Our reporting service now runs on a single SQLite file. Backups are a file copy and queries got faster. Here is what we learned along the way.", Status: "published"},
		{Title: "We're hiring backend engineers", Body: "The platform team is growing. We are looking for people who like boring technology and clear code. Remote friendly.", Status: "published"},
		{Title: "Customer story: Acme Inc", Body: "Acme cut their onboarding time in half by automating account setup. We sat down with their ops lead to hear how.", Status: "draft"},
		{Title: "Release notes 2.4", Body: "This release adds bulk export, CSV import and a dark theme. Two long-standing bugs in search are fixed as well.", Status: "published"},
		{Title: "Postmortem: March 3 outage", Body: "A misconfigured load balancer dropped traffic for 14 minutes. We added an alert and a config check to the deploy pipeline.", Status: "published"},
		{Title: "Design system update", Body: "Buttons, inputs and tables now share one set of tokens. Contributors should pull the latest package before opening new pull requests.", Status: "draft"},
		{Title: "Quarterly roadmap", Body: "Next quarter we focus on reliability and reporting. Feature requests are tracked on the public board.", Status: "archived"},
		{Title: "Behind the scenes: support", Body: "Our support team answers most tickets within an hour. We talked to them about tooling and the questions they hear most.", Status: "published"},
		{Title: "Deprecating the v1 API", Body: "The v1 API will be turned off at the end of the year. Migration guides are available in the docs.", Status: "draft"},
	}

	result := make([]PostData, count)
	for i := 0; i < count; i++ {
		p := templates[i%len(templates)]
		if i >= len(templates) {
			p.Title = fmt.Sprintf("%s (part %d)", p.Title, i/len(templates)+1)
		}
		if len(authors) > 0 {
			p.AuthorEmail = authors[i%len(authors)].Email
		}
		result[i] = p
	}
	return result
}
