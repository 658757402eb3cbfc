package command

// Header prefixes every response sent back to the chat.
const Header = "📋 TASK PANEL\n"

const usageText = `📘 How to use !task

1️⃣ Add a task:
!task add <content> /deadline [hh:mm] /remind [hh:mm]
→ Example: !task add Write report /deadline 17:00 /remind 16:45

2️⃣ List tasks:
!task list

3️⃣ Mark a task as done:
!task done <number>
→ Example: !task done 3

4️⃣ Change deadline or reminder time:
!task edit <number> /deadline [hh:mm] /remind [hh:mm]
→ Example: !task edit 2 /deadline 09:00 /remind 08:30

5️⃣ Remove a task:
!task remove <number>
→ Example: !task remove 5

---

💡 Tips:
- <number> is the position shown by !task list; it changes after a remove.
- Times can also be full dates: 2026-10-20 09:30
- The bot pings this chat once at the /remind time.`
